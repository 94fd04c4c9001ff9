package domain

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ConnState is the transport connection state of a session.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
)

// PlayState is the playback state of a session.
type PlayState int

const (
	PlayIdle PlayState = iota
	PlayPlaying
	PlayPaused
)

// Status is a point-in-time snapshot of a session's observable state.
// Decision points must take a fresh snapshot rather than holding one across
// network calls, since commands and the watchdog mutate the session concurrently.
type Status struct {
	Conn       ConnState
	Play       PlayState
	QueueLen   int
	HasCurrent bool
}

// Session is the single streaming session for a guild: its voice connection,
// pending track queue, current track, and requester attribution.
// Exactly one Session may exist per guild at any time; the repository and the
// orchestrator's reset step enforce this.
type Session struct {
	GuildID        snowflake.ID
	VoiceChannelID snowflake.ID
	TextChannelID  snowflake.ID

	mu         sync.Mutex
	conn       ConnState
	play       PlayState
	current    *Track
	queue      []*Track
	requesters map[string]string // track URI -> requester display name

	connected chan struct{} // closed on first transition to ConnConnected
	connOnce  sync.Once
	done      chan struct{} // closed on Destroy; cancels session-scoped timers
	doneOnce  sync.Once
}

// NewSession creates a disconnected, idle Session bound to the given channels.
func NewSession(guildID, voiceChannelID, textChannelID snowflake.ID) *Session {
	return &Session{
		GuildID:        guildID,
		VoiceChannelID: voiceChannelID,
		TextChannelID:  textChannelID,
		requesters:     make(map[string]string),
		connected:      make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Snapshot returns the session's current observable state.
func (s *Session) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Conn:       s.conn,
		Play:       s.play,
		QueueLen:   len(s.queue),
		HasCurrent: s.current != nil,
	}
}

// SetConnState updates the connection state.
func (s *Session) SetConnState(state ConnState) {
	s.mu.Lock()
	s.conn = state
	s.mu.Unlock()

	if state == ConnConnected {
		s.connOnce.Do(func() { close(s.connected) })
	}
}

// ConnState returns the connection state.
func (s *Session) ConnState() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// SetPlayState updates the playback state.
func (s *Session) SetPlayState(state PlayState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.play = state
}

// PlayState returns the playback state.
func (s *Session) PlayState() PlayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.play
}

// Current returns the currently loaded track, or nil.
func (s *Session) Current() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ClearCurrent drops the current track without touching the queue.
func (s *Session) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Enqueue appends a track to the pending queue, stamping it with the
// requester's name and recording attribution by URI (last write wins).
func (s *Session) Enqueue(track *Track, requester string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	track.Requester = requester
	track.EnqueuedAt = time.Now().UTC()
	s.queue = append(s.queue, track)
	if track.URI != "" {
		s.requesters[track.URI] = requester
	}
}

// StartNext pops the head of the queue into the current slot and returns it.
// Returns nil if the queue is empty; the current slot is cleared in that case.
func (s *Session) StartNext() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		s.current = nil
		return nil
	}
	s.current = s.queue[0]
	s.queue = s.queue[1:]
	return s.current
}

// QueueLen returns the number of pending tracks (excluding the current track).
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Queue returns a copy of the pending tracks in order.
func (s *Session) Queue() []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Track, len(s.queue))
	copy(out, s.queue)
	return out
}

// Requester returns the display name of the user who last enqueued the given
// URI, or an empty string if unknown.
func (s *Session) Requester(uri string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requesters[uri]
}

// WaitConnected blocks until the session first reports a connected transport,
// or the timeout elapses, or the session is destroyed. Returns whether the
// session connected. This is a best-effort grace wait, not a confirmation.
func (s *Session) WaitConnected(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.connected:
		return true
	case <-s.done:
		return false
	case <-timer.C:
		return s.ConnState() == ConnConnected
	}
}

// Destroy marks the session as logically dead: the done channel closes,
// which cancels any watchdog stages armed against it. Safe to call twice.
func (s *Session) Destroy() {
	s.doneOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = ConnDisconnected
	s.play = PlayIdle
	s.current = nil
	s.queue = nil
}

// Done returns a channel closed when the session is destroyed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Destroyed reports whether Destroy has been called.
func (s *Session) Destroyed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
