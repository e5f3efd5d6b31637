// Package biztime provides time utilities for the subscription domain.
// All storage and computation use UTC. Credit and expiry math operate on
// day granularity: timestamps are truncated to UTC midnight before any
// comparison so that sub-day timing noise cannot change a quote.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// TruncateToDayUTC truncates t to UTC midnight.
func TruncateToDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b after both are
// truncated to UTC midnight. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(TruncateToDayUTC(b).Sub(TruncateToDayUTC(a)).Hours() / 24)
}

// AddDays returns t shifted by the given number of days.
func AddDays(t time.Time, days int) time.Time {
	return t.Add(time.Duration(days) * 24 * time.Hour)
}
