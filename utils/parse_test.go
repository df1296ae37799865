package utils

import (
	"testing"
	"time"
)

func TestParseDateCalendarDay(t *testing.T) {
	got := ParseDate("2025-03-14")
	if got == nil {
		t.Fatal("calendar date should parse")
	}
	if !got.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateRFC3339(t *testing.T) {
	got := ParseDate("2025-03-14T09:30:00Z")
	if got == nil || got.Hour() != 9 {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "14/03/2025", "yesterday", "2025-13-40"} {
		if got := ParseDate(s); got != nil {
			t.Errorf("ParseDate(%q) = %v, want nil", s, got)
		}
	}
}
