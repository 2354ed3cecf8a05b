package utils

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-15T10:30:00Z", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-01-15T10:30:00-05:00", time.Date(2025, 1, 15, 10, 30, 0, 0, time.FixedZone("", -5*3600))},
		{"2025-01-15T10:30:00", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := ParseDateTime(tc.in)
		if err != nil {
			t.Fatalf("ParseDateTime(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDateTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateTimeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "soon", "15/01/2025"} {
		if _, err := ParseDateTime(in); err == nil {
			t.Errorf("ParseDateTime(%q) should fail", in)
		}
	}
}
