package utils

import (
	"strconv"
	"time"
)

func ParseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ParseDate accepts a plain calendar date or a full RFC 3339 timestamp.
// Returns nil when the value parses as neither.
func ParseDate(s string) *time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
