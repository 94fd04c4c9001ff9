package domain

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func testTrack(title, uri string) *Track {
	return &Track{
		Encoded: "encoded-" + title,
		Title:   title,
		URI:     uri,
	}
}

func TestSession_EnqueuePreservesOrder(t *testing.T) {
	s := NewSession(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))

	s.Enqueue(testTrack("first", "uri-1"), "alice")
	s.Enqueue(testTrack("second", "uri-2"), "alice")
	s.Enqueue(testTrack("third", "uri-3"), "bob")

	queue := s.Queue()
	if len(queue) != 3 {
		t.Fatalf("expected 3 queued tracks, got %d", len(queue))
	}
	for i, want := range []string{"first", "second", "third"} {
		if queue[i].Title != want {
			t.Errorf("queue[%d]: expected %q, got %q", i, want, queue[i].Title)
		}
	}
}

func TestSession_EnqueueRecordsAttribution(t *testing.T) {
	s := NewSession(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))

	s.Enqueue(testTrack("song", "uri-1"), "alice")

	if got := s.Requester("uri-1"); got != "alice" {
		t.Errorf("expected requester alice, got %q", got)
	}
	if got := s.Requester("uri-unknown"); got != "" {
		t.Errorf("expected empty requester for unknown URI, got %q", got)
	}
}

func TestSession_AttributionLastWriteWins(t *testing.T) {
	s := NewSession(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))

	s.Enqueue(testTrack("song", "uri-1"), "alice")
	s.Enqueue(testTrack("song", "uri-1"), "bob")

	if got := s.Requester("uri-1"); got != "bob" {
		t.Errorf("expected most recent requester bob, got %q", got)
	}
}

func TestSession_StartNext(t *testing.T) {
	s := NewSession(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))

	if got := s.StartNext(); got != nil {
		t.Errorf("expected nil from empty queue, got %v", got)
	}

	s.Enqueue(testTrack("first", "uri-1"), "alice")
	s.Enqueue(testTrack("second", "uri-2"), "alice")

	next := s.StartNext()
	if next == nil || next.Title != "first" {
		t.Fatalf("expected first track, got %v", next)
	}
	if cur := s.Current(); cur != next {
		t.Error("expected current track to be the started track")
	}
	if s.QueueLen() != 1 {
		t.Errorf("expected 1 pending track, got %d", s.QueueLen())
	}
}

func TestSession_Snapshot(t *testing.T) {
	s := NewSession(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))
	s.Enqueue(testTrack("song", "uri-1"), "alice")
	s.SetConnState(ConnConnected)
	s.SetPlayState(PlayPlaying)

	status := s.Snapshot()
	if status.Conn != ConnConnected {
		t.Error("expected connected")
	}
	if status.Play != PlayPlaying {
		t.Error("expected playing")
	}
	if status.QueueLen != 1 {
		t.Errorf("expected queue length 1, got %d", status.QueueLen)
	}
	if status.HasCurrent {
		t.Error("expected no current track")
	}
}

func TestSession_WaitConnected(t *testing.T) {
	s := NewSession(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))

	if s.WaitConnected(10 * time.Millisecond) {
		t.Error("expected timeout for never-connected session")
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		s.SetConnState(ConnConnected)
	}()
	if !s.WaitConnected(time.Second) {
		t.Error("expected wait to observe connection")
	}

	// already connected: returns immediately
	if !s.WaitConnected(time.Millisecond) {
		t.Error("expected immediate success for connected session")
	}
}

func TestSession_DestroyClearsStateAndCancels(t *testing.T) {
	s := NewSession(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))
	s.Enqueue(testTrack("song", "uri-1"), "alice")
	s.StartNext()
	s.SetConnState(ConnConnected)
	s.SetPlayState(PlayPlaying)

	s.Destroy()
	s.Destroy() // safe to call twice

	if !s.Destroyed() {
		t.Fatal("expected session to be destroyed")
	}
	select {
	case <-s.Done():
	default:
		t.Error("expected done channel to be closed")
	}

	status := s.Snapshot()
	if status.Conn != ConnDisconnected || status.Play != PlayIdle {
		t.Error("expected destroyed session to be disconnected and idle")
	}
	if status.QueueLen != 0 || status.HasCurrent {
		t.Error("expected destroyed session to drop its queue and current track")
	}
}

func TestSearchQuery_BackendQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain phrase gets search prefix",
			input: "never gonna give you up",
			want:  "ytsearch:never gonna give you up",
		},
		{
			name:  "url passes through",
			input: "https://youtu.be/dQw4w9WgXcQ",
			want:  "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			name:  "whitespace trimmed",
			input: "  some song  ",
			want:  "ytsearch:some song",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSearchQuery(tt.input).BackendQuery(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
