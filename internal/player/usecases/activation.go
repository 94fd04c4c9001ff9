package usecases

import (
	"github.com/hqtran/rhythmbot/internal/player/domain"
)

// Action is a playback activation decision.
type Action int

const (
	// ActionNone leaves playback alone.
	ActionNone Action = iota
	// ActionStart starts playback of the queue head. The only action that
	// arms the watchdog.
	ActionStart
	// ActionResume resumes paused playback.
	ActionResume
)

// DecideActivation is the playback activation policy: a pure decision over a
// live session snapshot taken after all enqueuing completed.
//
//   - empty queue: nothing to do
//   - not playing, not paused: start
//   - paused: resume
//   - already playing: no-op, the request only enqueued
func DecideActivation(status domain.Status) Action {
	if status.QueueLen == 0 {
		return ActionNone
	}

	switch status.Play {
	case domain.PlayPaused:
		return ActionResume
	case domain.PlayPlaying:
		return ActionNone
	default:
		return ActionStart
	}
}
