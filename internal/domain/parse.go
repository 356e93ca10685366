package domain

import "time"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:4"
)

// ParseDate parses a "YYYY-MM-DD" date. Any other shape fails.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseHour extracts the hour from an "HH:MM" time of day. Either part may
// be a single digit.
// Out-of-range values such as "25:61" fail.
func ParseHour(s string) (int, bool) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, false
	}
	return t.Hour(), true
}
