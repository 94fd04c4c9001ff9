package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/player/domain"
	"github.com/hqtran/rhythmbot/internal/player/ports"
)

// PlayRequest carries one playback request: who asked, where, and what.
// Immutable for the duration of the orchestrator run.
type PlayRequest struct {
	GuildID        snowflake.ID
	TextChannelID  snowflake.ID
	UserID         snowflake.ID
	VoiceChannelID snowflake.ID // 0 when the requester is not in voice
	RequesterName  string
	Query          string
}

// PlayService orchestrates a playback request end to end: precondition check,
// session reset, resolution, enqueue with attribution, activation, watchdog
// arming, and exactly one outcome notification.
type PlayService struct {
	repo      domain.SessionRepository
	transport ports.AudioTransport
	catalog   ports.CatalogExpander
	notifier  ports.Notifier
	watchdog  *Watchdog

	direct *directStrategy

	// connectGrace is the best-effort wait for the fresh session's transport
	// to connect before resolution starts.
	connectGrace time.Duration
}

// NewPlayService creates a PlayService.
func NewPlayService(
	repo domain.SessionRepository,
	transport ports.AudioTransport,
	resolver ports.TrackResolver,
	catalog ports.CatalogExpander,
	notifier ports.Notifier,
	watchdog *Watchdog,
	connectGrace time.Duration,
) *PlayService {
	return &PlayService{
		repo:         repo,
		transport:    transport,
		catalog:      catalog,
		notifier:     notifier,
		watchdog:     watchdog,
		direct:       &directStrategy{resolver: resolver},
		connectGrace: connectGrace,
	}
}

// Handle runs the orchestration for one request and emits exactly one outcome
// notification. Faults escaping any step after the precondition checks still
// yield a single best-effort error outcome.
func (p *PlayService) Handle(ctx context.Context, req PlayRequest) ports.Outcome {
	// Preconditions: fail fast with no state mutation.
	if req.VoiceChannelID == 0 {
		return p.emit(req, ports.Outcome{
			Kind:    ports.OutcomeValidation,
			Message: ErrUserNotInVoice.Error(),
		})
	}
	if !p.transport.Available() {
		return p.emit(req, ports.Outcome{
			Kind:    ports.OutcomeValidation,
			Message: ErrNoBackend.Error(),
		})
	}

	outcome, err := p.run(ctx, req)
	if err != nil {
		return p.emit(req, classifyFault(err))
	}
	return p.emit(req, outcome)
}

func (p *PlayService) run(ctx context.Context, req PlayRequest) (ports.Outcome, error) {
	session, err := p.resetSession(ctx, req)
	if err != nil {
		return ports.Outcome{}, err
	}

	strategy := p.classify(req.Query)
	tracks, err := strategy.resolve(ctx, req.Query)
	if err != nil {
		return ports.Outcome{}, err
	}

	// Enqueue in resolution order, attributing each track to the requester.
	for _, track := range tracks {
		session.Enqueue(track, req.RequesterName)
	}
	slog.Info("enqueued tracks",
		"guild", req.GuildID, "count", len(tracks), "query", req.Query)

	// Activation decides over a fresh snapshot: user commands may have
	// mutated the session while resolution was on the network.
	action := DecideActivation(session.Snapshot())
	switch action {
	case ActionStart:
		track := session.StartNext()
		if track != nil {
			if err := p.transport.Play(ctx, req.GuildID, track); err != nil {
				return ports.Outcome{}, err
			}
			session.SetPlayState(domain.PlayPlaying)
			p.watchdog.Arm(session)
			slog.Info("started playback", "guild", req.GuildID, "track", track.Title)
		}
	case ActionResume:
		if err := p.transport.Resume(ctx, req.GuildID); err != nil {
			return ports.Outcome{}, err
		}
		session.SetPlayState(domain.PlayPlaying)
		slog.Info("resumed playback", "guild", req.GuildID)
	default:
		slog.Debug("no activation needed", "guild", req.GuildID)
	}

	return ports.Outcome{
		Kind:    ports.OutcomeSuccess,
		Message: "Your request has been processed.",
	}, nil
}

// resetSession enforces the one-session-per-guild invariant. An existing
// session that is connected to the requester's endpoint and actively playing
// or paused is reused, so a second request while music plays only enqueues.
// Anything else is destroyed and recreated, then given a short best-effort
// connect grace before resolution proceeds.
func (p *PlayService) resetSession(
	ctx context.Context,
	req PlayRequest,
) (*domain.Session, error) {
	if existing := p.repo.Get(req.GuildID); existing != nil {
		status := existing.Snapshot()
		if existing.VoiceChannelID == req.VoiceChannelID &&
			status.Conn == domain.ConnConnected &&
			status.Play != domain.PlayIdle {
			return existing, nil
		}

		slog.Debug("destroying stale session", "guild", req.GuildID)
		existing.Destroy()
		if err := p.transport.Leave(ctx, req.GuildID); err != nil {
			slog.Warn("failed to tear down old session transport",
				"guild", req.GuildID, "error", err)
		}
		p.repo.Delete(req.GuildID)
	}

	session := domain.NewSession(req.GuildID, req.VoiceChannelID, req.TextChannelID)
	p.repo.Save(session)

	session.SetConnState(domain.ConnConnecting)
	if err := p.transport.Join(ctx, req.GuildID, req.VoiceChannelID); err != nil {
		return nil, err
	}

	if !session.WaitConnected(p.connectGrace) {
		// Proceed anyway; the watchdog handles sessions that never connect.
		slog.Debug("session not connected after grace period, continuing",
			"guild", req.GuildID)
	}

	return session, nil
}

// classify selects the resolution strategy for a query.
func (p *PlayService) classify(query string) resolveStrategy {
	if p.catalog != nil && p.catalog.Handles(query) {
		return &catalogStrategy{expander: p.catalog, direct: p.direct}
	}
	return p.direct
}

// emit delivers the single user-visible outcome. Delivery failures are
// swallowed here: the notifier logs them, and they never change the result.
func (p *PlayService) emit(req PlayRequest, outcome ports.Outcome) ports.Outcome {
	if err := p.notifier.Notify(req.TextChannelID, outcome); err != nil {
		slog.Warn("failed to deliver outcome notification",
			"guild", req.GuildID, "error", err)
	}
	return outcome
}

// classifyFault maps a run error to its outcome class.
func classifyFault(err error) ports.Outcome {
	switch {
	case errors.Is(err, ErrNoResults):
		return ports.Outcome{Kind: ports.OutcomeNoResults, Message: ErrNoResults.Error()}
	case errors.Is(err, ErrCatalogFailed):
		return ports.Outcome{Kind: ports.OutcomeResolveError, Message: ErrCatalogFailed.Error()}
	case errors.Is(err, ErrResolveFailed):
		return ports.Outcome{Kind: ports.OutcomeResolveError, Message: ErrResolveFailed.Error()}
	default:
		slog.Error("playback request failed", "error", err)
		return ports.Outcome{
			Kind:    ports.OutcomeResolveError,
			Message: "Something went wrong while processing your request.",
		}
	}
}
