package engine

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEmployeeCodeFormat(t *testing.T) {
	now := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "AMNEX-1-3/5/26", employeeCode(1, now))
	assert.Equal(t, "AMNEX-42-3/5/26", employeeCode(42, now))

	// Month and day are not zero-padded; the year always is.
	jan := time.Date(2030, time.January, 9, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "AMNEX-7-1/9/30", employeeCode(7, jan))

	y2k := time.Date(2105, time.December, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "AMNEX-3-12/31/05", employeeCode(3, y2k))
}

func TestRandomSpecialCodeFormat(t *testing.T) {
	now := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^AMNEX-[0-9A-F]{8}-3/5/26$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := RandomSpecialCode(now)
		require.Regexp(t, pattern, code)
		assert.False(t, seen[code], "codes should not repeat: %s", code)
		seen[code] = true
	}
}

func TestNextSequenceIsPerDate(t *testing.T) {
	db := newTestDB(t)

	for want := 1; want <= 3; want++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			seq, err := nextSequence(tx, "2026-03-05")
			require.NoError(t, err)
			assert.Equal(t, want, seq)
			return nil
		})
		require.NoError(t, err)
	}

	// A different date starts its own counter at 1.
	err := db.Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx, "2026-03-06")
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
		return nil
	})
	require.NoError(t, err)
}
