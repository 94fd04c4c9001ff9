package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/player/domain"
	"github.com/hqtran/rhythmbot/internal/player/ports"
)

// ControlService handles user-issued session controls. These run concurrently
// with in-flight playback requests and mutate the same session the
// orchestrator observes; the session is the single point of truth.
type ControlService struct {
	repo      domain.SessionRepository
	transport ports.AudioTransport
}

// NewControlService creates a ControlService.
func NewControlService(
	repo domain.SessionRepository,
	transport ports.AudioTransport,
) *ControlService {
	return &ControlService{
		repo:      repo,
		transport: transport,
	}
}

// Stop destroys the guild's session: playback ends, the queue is discarded,
// and any armed watchdog stages are cancelled with the session.
func (c *ControlService) Stop(ctx context.Context, guildID snowflake.ID) error {
	session := c.repo.Get(guildID)
	if session == nil {
		return ErrNoSession
	}

	session.Destroy()
	if err := c.transport.Leave(ctx, guildID); err != nil {
		slog.Warn("failed to leave voice on stop", "guild", guildID, "error", err)
	}
	c.repo.Delete(guildID)

	slog.Info("stopped session", "guild", guildID)
	return nil
}

// Pause pauses the current playback.
func (c *ControlService) Pause(ctx context.Context, guildID snowflake.ID) error {
	session := c.repo.Get(guildID)
	if session == nil {
		return ErrNoSession
	}
	if session.PlayState() != domain.PlayPlaying {
		return ErrNotPlaying
	}

	if err := c.transport.Pause(ctx, guildID); err != nil {
		return err
	}
	session.SetPlayState(domain.PlayPaused)
	return nil
}

// Resume resumes paused playback.
func (c *ControlService) Resume(ctx context.Context, guildID snowflake.ID) error {
	session := c.repo.Get(guildID)
	if session == nil {
		return ErrNoSession
	}
	if session.PlayState() != domain.PlayPaused {
		return ErrNotPaused
	}

	if err := c.transport.Resume(ctx, guildID); err != nil {
		return err
	}
	session.SetPlayState(domain.PlayPlaying)
	return nil
}

// Skip drops the current track and starts the next queued one. With an empty
// queue it stops playback but keeps the session alive.
func (c *ControlService) Skip(ctx context.Context, guildID snowflake.ID) (*domain.Track, error) {
	session := c.repo.Get(guildID)
	if session == nil {
		return nil, ErrNoSession
	}
	if session.Current() == nil {
		return nil, ErrNotPlaying
	}

	next := session.StartNext()
	if next == nil {
		if err := c.transport.Stop(ctx, guildID); err != nil {
			return nil, err
		}
		session.SetPlayState(domain.PlayIdle)
		return nil, nil
	}

	if err := c.transport.Play(ctx, guildID, next); err != nil {
		session.SetPlayState(domain.PlayIdle)
		return nil, err
	}
	session.SetPlayState(domain.PlayPlaying)
	return next, nil
}
