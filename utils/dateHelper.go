package utils

import "time"

// TruncateToDay drops the time-of-day component. All MRP date buckets
// are day-granular UTC dates.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns a sortable bucket key for a date.
func DayKey(t time.Time) int64 {
	return TruncateToDay(t).Unix()
}
