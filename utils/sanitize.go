package utils

import "github.com/microcosm-cc/bluemonday"

var noticePolicy = bluemonday.UGCPolicy()

// SanitizeNotice cleans the admin-supplied cafeteria notice HTML before it is
// stored; the notice is served to every portal visitor.
func SanitizeNotice(input string) string {
	return noticePolicy.Sanitize(input)
}
