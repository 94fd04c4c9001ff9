package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/hqtran/rhythmbot/internal/player/domain"
	"github.com/hqtran/rhythmbot/internal/player/ports"
)

// watchdogState names the recovery state machine's states.
type watchdogState string

const (
	stateObserving    watchdogState = "observing"
	stateHealthy      watchdogState = "healthy"
	stateReconnecting watchdogState = "reconnecting"
	stateRestarting   watchdogState = "restarting"
	stateFailed       watchdogState = "failed"
)

// WatchdogConfig holds the staged check horizons.
type WatchdogConfig struct {
	Stage1       time.Duration // short horizon after activation
	Stage2       time.Duration // long horizon after activation
	RestartPause time.Duration // pause inside the stage-2 stop/restart cycle
	ConnectGrace time.Duration // wait after a stage-1 reconnect attempt
}

// DefaultWatchdogConfig returns the production horizons.
func DefaultWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		Stage1:       3 * time.Second,
		Stage2:       10 * time.Second,
		RestartPause: time.Second,
		ConnectGrace: time.Second,
	}
}

// Watchdog runs staged health checks against a session after a start
// activation and applies bounded recovery. Both stages always run; stage 2
// re-reads live state rather than trusting stage 1's outcome, which tolerates
// state flapping between observations. Stages are cancelled when the session
// is destroyed, so a stale timer never fires against a successor session.
type Watchdog struct {
	transport ports.AudioTransport
	config    WatchdogConfig
}

// NewWatchdog creates a Watchdog over the given transport.
func NewWatchdog(transport ports.AudioTransport, config WatchdogConfig) *Watchdog {
	return &Watchdog{
		transport: transport,
		config:    config,
	}
}

// Arm schedules the two recovery stages for the session. Detached: it never
// blocks the caller, and its actions mutate only the session and transport.
func (w *Watchdog) Arm(session *domain.Session) {
	go w.run(session)
}

func (w *Watchdog) run(session *domain.Session) {
	if !w.sleep(session, w.config.Stage1) {
		return
	}
	state := w.stage1(session)
	slog.Debug("watchdog stage 1 complete", "guild", session.GuildID, "state", state)

	if !w.sleep(session, w.config.Stage2-w.config.Stage1) {
		return
	}
	state = w.stage2(session)
	slog.Debug("watchdog stage 2 complete", "guild", session.GuildID, "state", state)
}

// sleep waits for d or until the session is destroyed; reports whether the
// full duration elapsed.
func (w *Watchdog) sleep(session *domain.Session, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-session.Done():
		return false
	}
}

// guardDisconnected: the session lost its connection while tracks are still
// waiting. Stage-1 response is a single reconnect attempt.
func guardDisconnected(status domain.Status) bool {
	return status.Conn != domain.ConnConnected && status.QueueLen > 0
}

// guardStuckStart: the session is connected and holds a current track but
// playback never started. Stage-1 response is one reissued start. A paused
// session is user-requested idle, not stuck.
func guardStuckStart(status domain.Status) bool {
	return status.Conn == domain.ConnConnected &&
		status.Play == domain.PlayIdle &&
		status.HasCurrent
}

// guardStalled: at the long horizon the session is connected with pending
// tracks but still not producing audio. Stage-2 response is a full
// stop/wait/restart cycle. Paused sessions are left alone.
func guardStalled(status domain.Status) bool {
	return status.Conn == domain.ConnConnected &&
		status.Play == domain.PlayIdle &&
		status.QueueLen > 0
}

// guardDead: still disconnected at the long horizon. Terminal for this
// request; report only.
func guardDead(status domain.Status) bool {
	return status.Conn != domain.ConnConnected
}

func (w *Watchdog) stage1(session *domain.Session) watchdogState {
	ctx := context.Background()
	status := session.Snapshot()

	switch {
	case guardDisconnected(status):
		slog.Warn("session disconnected after activation, reconnecting",
			"guild", session.GuildID, "queued", status.QueueLen)
		if err := w.transport.Join(ctx, session.GuildID, session.VoiceChannelID); err != nil {
			slog.Error("watchdog reconnect failed", "guild", session.GuildID, "error", err)
			return stateFailed
		}
		if !session.WaitConnected(w.config.ConnectGrace) {
			return stateReconnecting
		}
		// reconnected; reissue start only if nothing is playing
		if session.PlayState() == domain.PlayIdle {
			track := session.Current()
			if track == nil {
				track = session.StartNext()
			}
			if track != nil {
				if err := w.transport.Play(ctx, session.GuildID, track); err != nil {
					slog.Error("watchdog restart after reconnect failed",
						"guild", session.GuildID, "error", err)
					return stateFailed
				}
				session.SetPlayState(domain.PlayPlaying)
			}
		}
		return stateReconnecting

	case guardStuckStart(status):
		slog.Warn("session connected but not playing, reissuing start",
			"guild", session.GuildID)
		if err := w.transport.Play(ctx, session.GuildID, session.Current()); err != nil {
			slog.Error("watchdog reissued start failed", "guild", session.GuildID, "error", err)
			return stateFailed
		}
		session.SetPlayState(domain.PlayPlaying)
		return stateRestarting

	default:
		return stateHealthy
	}
}

func (w *Watchdog) stage2(session *domain.Session) watchdogState {
	ctx := context.Background()
	status := session.Snapshot()

	switch {
	case guardStalled(status):
		slog.Warn("session still stalled at long horizon, restarting playback",
			"guild", session.GuildID, "queued", status.QueueLen)
		if err := w.transport.Stop(ctx, session.GuildID); err != nil {
			slog.Error("watchdog stop failed", "guild", session.GuildID, "error", err)
			return stateFailed
		}
		if !w.sleep(session, w.config.RestartPause) {
			return stateRestarting
		}
		track := session.Current()
		if track == nil {
			track = session.StartNext()
		}
		if track == nil {
			return stateHealthy
		}
		if err := w.transport.Play(ctx, session.GuildID, track); err != nil {
			slog.Error("watchdog restart failed", "guild", session.GuildID, "error", err)
			return stateFailed
		}
		session.SetPlayState(domain.PlayPlaying)
		return stateRestarting

	case guardDead(status):
		// terminal backend failure for this request; no further recovery
		slog.Error("session still disconnected at long horizon, giving up",
			"guild", session.GuildID)
		return stateFailed

	default:
		return stateHealthy
	}
}
