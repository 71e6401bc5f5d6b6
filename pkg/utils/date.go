package utils

import (
	"strings"
	"time"
)

// ParseISOTime parses an ISO-8601 timestamp, accepting both an explicit
// offset and a bare "Z" suffix, as well as date-only values.
func ParseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
