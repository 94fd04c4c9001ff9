package usecases

import (
	"errors"
	"testing"
	"time"

	"github.com/hqtran/rhythmbot/internal/player/domain"
)

var errTransportDown = errors.New("voice gateway unreachable")

func shortWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		Stage1:       20 * time.Millisecond,
		Stage2:       60 * time.Millisecond,
		RestartPause: 5 * time.Millisecond,
		ConnectGrace: 50 * time.Millisecond,
	}
}

// waitForStages sleeps past both check horizons so their effects are visible.
func waitForStages(config WatchdogConfig) {
	time.Sleep(config.Stage2 + config.RestartPause + 100*time.Millisecond)
}

func TestWatchdogGuards(t *testing.T) {
	tests := []struct {
		name         string
		status       domain.Status
		disconnected bool
		stuckStart   bool
		stalled      bool
		dead         bool
	}{
		{
			name:   "healthy playing session",
			status: domain.Status{Conn: domain.ConnConnected, Play: domain.PlayPlaying, HasCurrent: true},
		},
		{
			name:         "disconnected with pending tracks",
			status:       domain.Status{Conn: domain.ConnDisconnected, Play: domain.PlayIdle, QueueLen: 2},
			disconnected: true,
			dead:         true,
		},
		{
			name:   "disconnected with nothing queued",
			status: domain.Status{Conn: domain.ConnDisconnected, Play: domain.PlayIdle},
			dead:   true,
		},
		{
			name:       "connected but start never took effect",
			status:     domain.Status{Conn: domain.ConnConnected, Play: domain.PlayIdle, HasCurrent: true, QueueLen: 1},
			stuckStart: true,
			stalled:    true,
		},
		{
			name:    "connected and silent with pending tracks",
			status:  domain.Status{Conn: domain.ConnConnected, Play: domain.PlayIdle, QueueLen: 1},
			stalled: true,
		},
		{
			name:   "paused by the user is not a fault",
			status: domain.Status{Conn: domain.ConnConnected, Play: domain.PlayPaused, HasCurrent: true, QueueLen: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guardDisconnected(tt.status); got != tt.disconnected {
				t.Errorf("guardDisconnected = %v, want %v", got, tt.disconnected)
			}
			if got := guardStuckStart(tt.status); got != tt.stuckStart {
				t.Errorf("guardStuckStart = %v, want %v", got, tt.stuckStart)
			}
			if got := guardStalled(tt.status); got != tt.stalled {
				t.Errorf("guardStalled = %v, want %v", got, tt.stalled)
			}
			if got := guardDead(tt.status); got != tt.dead {
				t.Errorf("guardDead = %v, want %v", got, tt.dead)
			}
		})
	}
}

func TestWatchdog_HealthySessionUntouched(t *testing.T) {
	repo := newMockRepository()
	transport := newMockTransport(repo)
	config := shortWatchdogConfig()
	watchdog := NewWatchdog(transport, config)

	session := domain.NewSession(testGuildID, testVoiceID, testTextID)
	session.SetConnState(domain.ConnConnected)
	session.Enqueue(&domain.Track{Title: "One", URI: "u1"}, testRequester)
	session.StartNext()
	session.SetPlayState(domain.PlayPlaying)
	repo.Save(session)

	watchdog.Arm(session)
	waitForStages(config)

	joins, plays, stops, _, _, _ := transport.counts()
	if joins != 0 || plays != 0 || stops != 0 {
		t.Errorf("expected no recovery actions, got joins=%d plays=%d stops=%d",
			joins, plays, stops)
	}
}

func TestWatchdog_ReconnectsAndRestartsDroppedSession(t *testing.T) {
	repo := newMockRepository()
	transport := newMockTransport(repo)
	config := shortWatchdogConfig()
	watchdog := NewWatchdog(transport, config)

	session := domain.NewSession(testGuildID, testVoiceID, testTextID)
	session.Enqueue(&domain.Track{Title: "One", URI: "u1"}, testRequester)
	repo.Save(session)

	watchdog.Arm(session)
	waitForStages(config)

	joins, plays, _, _, _, _ := transport.counts()
	if joins != 1 {
		t.Errorf("expected one reconnect attempt, got %d", joins)
	}
	if plays != 1 {
		t.Errorf("expected playback reissued once after reconnect, got %d plays", plays)
	}
	if got := session.ConnState(); got != domain.ConnConnected {
		t.Errorf("expected session reconnected, got %v", got)
	}
	if got := session.PlayState(); got != domain.PlayPlaying {
		t.Errorf("expected session playing after recovery, got %v", got)
	}
}

func TestWatchdog_ReissuesStartForStuckSession(t *testing.T) {
	repo := newMockRepository()
	transport := newMockTransport(repo)
	config := shortWatchdogConfig()
	watchdog := NewWatchdog(transport, config)

	// Connected, current track loaded, but playback never began.
	session := domain.NewSession(testGuildID, testVoiceID, testTextID)
	session.SetConnState(domain.ConnConnected)
	session.Enqueue(&domain.Track{Title: "One", URI: "u1"}, testRequester)
	session.StartNext()
	repo.Save(session)

	watchdog.Arm(session)
	waitForStages(config)

	joins, plays, stops, _, _, _ := transport.counts()
	if joins != 0 {
		t.Errorf("expected no reconnect for a connected session, got %d joins", joins)
	}
	if plays != 1 {
		t.Errorf("expected exactly one reissued start, got %d", plays)
	}
	if stops != 0 {
		t.Errorf("expected no stage-2 restart once stage 1 recovered, got %d stops", stops)
	}
}

func TestWatchdog_StopsAndRestartsStalledSession(t *testing.T) {
	repo := newMockRepository()
	transport := newMockTransport(repo)
	config := shortWatchdogConfig()
	watchdog := NewWatchdog(transport, config)

	// Connected with pending tracks but no current track: stage 1 sees nothing
	// to reissue, stage 2 runs the full stop/restart cycle.
	session := domain.NewSession(testGuildID, testVoiceID, testTextID)
	session.SetConnState(domain.ConnConnected)
	session.Enqueue(&domain.Track{Title: "One", URI: "u1"}, testRequester)
	repo.Save(session)

	watchdog.Arm(session)
	waitForStages(config)

	_, plays, stops, _, _, _ := transport.counts()
	if stops != 1 {
		t.Errorf("expected one stop in the restart cycle, got %d", stops)
	}
	if plays != 1 {
		t.Errorf("expected one restart after the stop, got %d plays", plays)
	}
	if got := session.PlayState(); got != domain.PlayPlaying {
		t.Errorf("expected session playing after restart, got %v", got)
	}
}

func TestWatchdog_GivesUpOnDeadSession(t *testing.T) {
	repo := newMockRepository()
	transport := newMockTransport(repo)
	transport.connectOnJoin = false
	transport.joinErr = errTransportDown
	config := shortWatchdogConfig()
	watchdog := NewWatchdog(transport, config)

	session := domain.NewSession(testGuildID, testVoiceID, testTextID)
	session.Enqueue(&domain.Track{Title: "One", URI: "u1"}, testRequester)
	repo.Save(session)

	watchdog.Arm(session)
	waitForStages(config)

	joins, plays, stops, _, _, _ := transport.counts()
	if joins != 1 {
		t.Errorf("expected one failed reconnect attempt, got %d", joins)
	}
	if plays != 0 || stops != 0 {
		t.Errorf("expected no playback actions on a dead session, got plays=%d stops=%d",
			plays, stops)
	}
}

func TestWatchdog_DestroyCancelsPendingStages(t *testing.T) {
	repo := newMockRepository()
	transport := newMockTransport(repo)
	config := shortWatchdogConfig()
	watchdog := NewWatchdog(transport, config)

	session := domain.NewSession(testGuildID, testVoiceID, testTextID)
	session.Enqueue(&domain.Track{Title: "One", URI: "u1"}, testRequester)
	repo.Save(session)

	watchdog.Arm(session)
	session.Destroy()
	waitForStages(config)

	joins, plays, stops, _, _, _ := transport.counts()
	if joins != 0 || plays != 0 || stops != 0 {
		t.Errorf("expected no actions against a destroyed session, got joins=%d plays=%d stops=%d",
			joins, plays, stops)
	}
}

func TestWatchdog_LeavesPausedSessionAlone(t *testing.T) {
	repo := newMockRepository()
	transport := newMockTransport(repo)
	config := shortWatchdogConfig()
	watchdog := NewWatchdog(transport, config)

	session := domain.NewSession(testGuildID, testVoiceID, testTextID)
	session.SetConnState(domain.ConnConnected)
	session.Enqueue(&domain.Track{Title: "One", URI: "u1"}, testRequester)
	session.Enqueue(&domain.Track{Title: "Two", URI: "u2"}, testRequester)
	session.StartNext()
	session.SetPlayState(domain.PlayPaused)
	repo.Save(session)

	watchdog.Arm(session)
	waitForStages(config)

	joins, plays, stops, _, _, _ := transport.counts()
	if joins != 0 || plays != 0 || stops != 0 {
		t.Errorf("expected a paused session to be left alone, got joins=%d plays=%d stops=%d",
			joins, plays, stops)
	}
	if got := session.PlayState(); got != domain.PlayPaused {
		t.Errorf("expected session still paused, got %v", got)
	}
}
