package textutil_test

import (
	"testing"

	"squeeze/internal/textutil"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"holiday_clip.2024.mp4", "Holiday Clip 2024"},
		{"/tmp/downloads/my-video.mp4", "My Video"},
		{"", "Untitled Media"},
		{"___.mp4", "Untitled Media"},
		{"already nice.mp4", "Already Nice"},
	}
	for _, tc := range tests {
		if got := textutil.DeriveTitle(tc.input); got != tc.want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := textutil.Truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := textutil.Truncate("abc", 4); got != "abc" {
		t.Fatalf("Truncate should not touch short strings, got %q", got)
	}
	if got := textutil.Truncate("abc", 0); got != "" {
		t.Fatalf("Truncate with max 0 = %q", got)
	}
}
