package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tenantkit/tenantkit/pkg/types"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestClassifyBoundaries(t *testing.T) {
	threshold := 30

	testCases := []struct {
		name       string
		expiration time.Time
		expected   types.Status
	}{
		{"expired yesterday", now.AddDate(0, 0, -1), types.StatusFail},
		{"expired long ago", now.AddDate(0, 0, -365), types.StatusFail},
		{"expires today", now, types.StatusWarning},
		{"inside threshold", now.AddDate(0, 0, 29), types.StatusWarning},
		{"exactly at threshold", now.AddDate(0, 0, 30), types.StatusWarning},
		{"just past threshold", now.AddDate(0, 0, 31), types.StatusPass},
		{"far future", now.AddDate(1, 0, 0), types.StatusPass},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.expiration, now, threshold))
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	expiration := now.AddDate(0, 0, 12)
	first := Classify(expiration, now, 30)
	second := Classify(expiration, now, 30)
	assert.Equal(t, first, second)
}

func TestDaysLeft(t *testing.T) {
	assert.Equal(t, 10, DaysLeft(now.AddDate(0, 0, 10), now))
	assert.Equal(t, 0, DaysLeft(now, now))
	assert.Equal(t, -3, DaysLeft(now.AddDate(0, 0, -3), now))
	// partial days truncate toward zero
	assert.Equal(t, 0, DaysLeft(now.Add(23*time.Hour), now))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "expires in 10 days (2025-06-11)", Describe(now.AddDate(0, 0, 10), now))
	assert.Equal(t, "expires today (2025-06-01)", Describe(now, now))
	assert.Equal(t, "expired 3 days ago (2025-05-29)", Describe(now.AddDate(0, 0, -3), now))
}
