package usecases

import (
	"testing"

	"github.com/hqtran/rhythmbot/internal/player/domain"
)

func TestDecideActivation(t *testing.T) {
	tests := []struct {
		name   string
		status domain.Status
		want   Action
	}{
		{
			name:   "empty queue does nothing",
			status: domain.Status{Conn: domain.ConnConnected, Play: domain.PlayIdle},
			want:   ActionNone,
		},
		{
			name:   "idle with pending tracks starts",
			status: domain.Status{Conn: domain.ConnConnected, Play: domain.PlayIdle, QueueLen: 3},
			want:   ActionStart,
		},
		{
			name:   "paused with pending tracks resumes",
			status: domain.Status{Conn: domain.ConnConnected, Play: domain.PlayPaused, QueueLen: 1, HasCurrent: true},
			want:   ActionResume,
		},
		{
			name:   "already playing only enqueues",
			status: domain.Status{Conn: domain.ConnConnected, Play: domain.PlayPlaying, QueueLen: 5, HasCurrent: true},
			want:   ActionNone,
		},
		{
			name:   "paused but empty queue does nothing",
			status: domain.Status{Conn: domain.ConnConnected, Play: domain.PlayPaused, HasCurrent: true},
			want:   ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideActivation(tt.status); got != tt.want {
				t.Errorf("DecideActivation(%+v) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
