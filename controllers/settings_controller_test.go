package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/engine"
)

func TestSettingsUpdateSanitizesNotice(t *testing.T) {
	r, db := newTestServer(t)
	token := loginToken(t, r)

	s := engine.DefaultSettings()
	s.NoticeTitle = "Diwali schedule"
	s.NoticeHTML = `<p>Special thali</p><script>alert("x")</script>`
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/settings", token, s)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := engine.LoadSettings(db)
	require.NoError(t, err)
	assert.Equal(t, "Diwali schedule", stored.NoticeTitle)
	assert.Contains(t, stored.NoticeHTML, "<p>Special thali</p>")
	assert.NotContains(t, stored.NoticeHTML, "<script>")
}

func TestSettingsUpdateRejectsInvalid(t *testing.T) {
	r, _ := newTestServer(t)
	token := loginToken(t, r)

	s := engine.DefaultSettings()
	s.MaxCoupons = -5
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/settings", token, s)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/settings", "", s)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNoticeEndpointIsPublic(t *testing.T) {
	r, db := newTestServer(t)

	s := engine.DefaultSettings()
	s.NoticeTitle = "Closed Sunday"
	s.NoticeHTML = "<p>See you Monday</p>"
	require.NoError(t, engine.SaveSettings(db, s))

	w, parsed := doJSON(t, r, http.MethodGet, "/api/v1/notice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, parsed)
	assert.Equal(t, "Closed Sunday", data["title"])
	assert.Equal(t, "<p>See you Monday</p>", data["html"])
}

func TestEmployeeUpsertEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	token := loginToken(t, r)

	w, parsed := doJSON(t, r, http.MethodPost, "/api/v1/employees", token, gin.H{
		"employeeId": "AIPL0042",
		"fullName":   "Meera Pillai",
		"email":      "meera@example.com",
		"department": "Finance",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, parsed)
	assert.Equal(t, true, data["isActive"], "new employees default to active")

	// Upsert with the same ID updates in place; omitting isActive keeps it.
	w, parsed = doJSON(t, r, http.MethodPost, "/api/v1/employees", token, gin.H{
		"employeeId": "AIPL0042",
		"fullName":   "Meera S. Pillai",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/employees", token, gin.H{"employeeId": "AIPL0099"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "fullName is required")
}

func TestReportRangeEndpoint(t *testing.T) {
	r, db := newTestServer(t)
	seedEmployee(t, db, "AIPL0001", "Asha Nair")
	token := loginToken(t, r)

	code := issueCoupon(t, r, "AIPL0001")
	_, _ = doJSON(t, r, http.MethodPost, "/api/v1/attendance", token, gin.H{"couponCode": code})

	today := engine.DateKey(time.Now())
	w, parsed := doJSON(t, r, http.MethodGet, "/api/v1/reports/range?from="+today+"&to="+today, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, parsed)
	assert.EqualValues(t, 1, data["totalIssued"])
	assert.EqualValues(t, 1, data["totalRedeemed"])

	byEmployee := data["byEmployee"].([]interface{})
	require.Len(t, byEmployee, 1)
	row := byEmployee[0].(map[string]interface{})
	assert.Equal(t, "AIPL0001", row["employeeId"])
	assert.Equal(t, "Asha Nair", row["employeeName"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/reports/range?from="+today, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
