package util

import "time"

// ParseDate accepts either a bare date or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
