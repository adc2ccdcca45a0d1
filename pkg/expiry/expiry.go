// Package expiry classifies expiration timestamps against a warning
// threshold. The near-expiry boundary is inclusive: a resource expiring in
// exactly threshold days is a Warning, not a Pass. This resolves the mixed
// -le/-lt conventions found across older monitoring scripts in favor of the
// earlier alert.
package expiry

import (
	"fmt"
	"time"

	"github.com/tenantkit/tenantkit/pkg/types"
)

// DaysLeft returns the whole days between now and expiration, truncated
// toward zero. Anything already past is negative.
func DaysLeft(expiration, now time.Time) int {
	return int(expiration.Sub(now).Hours() / 24)
}

// Classify maps an expiration timestamp to a status:
//
//	daysLeft < 0              -> Fail (expired)
//	0 <= daysLeft <= threshold -> Warning (near expiry)
//	daysLeft > threshold       -> Pass
//
// The caller supplies now explicitly so classification of a fixed input set
// is idempotent.
func Classify(expiration, now time.Time, thresholdDays int) types.Status {
	daysLeft := DaysLeft(expiration, now)
	switch {
	case daysLeft < 0:
		return types.StatusFail
	case daysLeft <= thresholdDays:
		return types.StatusWarning
	default:
		return types.StatusPass
	}
}

// Describe renders the human-readable detail line for a classified expiration.
func Describe(expiration, now time.Time) string {
	daysLeft := DaysLeft(expiration, now)
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("expired %d days ago (%s)", -daysLeft, expiration.Format("2006-01-02"))
	case daysLeft == 0:
		return fmt.Sprintf("expires today (%s)", expiration.Format("2006-01-02"))
	default:
		return fmt.Sprintf("expires in %d days (%s)", daysLeft, expiration.Format("2006-01-02"))
	}
}
