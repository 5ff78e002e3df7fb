package util

import (
	"strconv"
	"time"
)

// ParseTime tries date-only, RFC3339, RFC3339Nano, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// AlignFromTo rounds the range start down to the bar boundary of the
// timeframe: Monday for weekly, the first of the month for monthly,
// midnight otherwise.
func AlignFromTo(from, to time.Time, tf string) (time.Time, time.Time) {
	from = truncateDay(from)
	to = truncateDay(to)
	switch tf {
	case "weekly":
		wd := int(from.Weekday())
		if wd == 0 {
			wd = 7
		}
		from = from.AddDate(0, 0, 1-wd)
	case "monthly":
		from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	}
	return from, to
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
