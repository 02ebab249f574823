package source

import "testing"

func TestParseDurationText(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"0:45", 45},
		{"3:15", 195},
		{"10:00", 600},
		{"1:02:03", 3723},
		{"", 0},
		{"live", 0},
		{"3:xx", 0},
	}
	for _, tt := range tests {
		if got := ParseDurationText(tt.text); got != tt.want {
			t.Errorf("ParseDurationText(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestDurationFromMillis(t *testing.T) {
	if got := DurationFromMillis(183000); got != 183 {
		t.Errorf("DurationFromMillis(183000) = %d, want 183", got)
	}
	if got := DurationFromMillis(999); got != 0 {
		t.Errorf("DurationFromMillis(999) = %d, want 0", got)
	}
}

func TestWatchURL(t *testing.T) {
	want := "https://www.youtube.com/watch?v=abc123"
	if got := WatchURL("abc123"); got != want {
		t.Errorf("WatchURL = %q, want %q", got, want)
	}
}
