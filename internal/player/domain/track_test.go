package domain

import (
	"testing"
	"time"
)

func TestTrack_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  bool
	}{
		{"complete", Track{Encoded: "abc", Title: "Song"}, true},
		{"missing encoded data", Track{Title: "Song"}, false},
		{"missing title", Track{Encoded: "abc"}, false},
		{"empty", Track{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrack_ArtistLine(t *testing.T) {
	track := Track{Artists: []string{"A", "B"}}
	if got := track.ArtistLine(); got != "A, B" {
		t.Errorf("ArtistLine() = %q, want %q", got, "A, B")
	}

	empty := Track{}
	if got := empty.ArtistLine(); got != "" {
		t.Errorf("ArtistLine() = %q, want empty", got)
	}
}

func TestTrack_FormattedDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		isStream bool
		want     string
	}{
		{"under a minute", 42 * time.Second, false, "00:42"},
		{"minutes and seconds", 3*time.Minute + 5*time.Second, false, "03:05"},
		{"over an hour", time.Hour + 2*time.Minute + 3*time.Second, false, "01:02:03"},
		{"zero", 0, false, "00:00"},
		{"live stream", 0, true, "LIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := Track{Duration: tt.duration, IsStream: tt.isStream}
			if got := track.FormattedDuration(); got != tt.want {
				t.Errorf("FormattedDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}
