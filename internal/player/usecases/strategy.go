package usecases

import (
	"context"
	"log/slog"

	"github.com/hqtran/rhythmbot/internal/player/domain"
	"github.com/hqtran/rhythmbot/internal/player/ports"
)

// resolveStrategy turns a raw query into concrete playable tracks. The
// orchestrator selects one strategy per request during classification; adding
// a new source type means adding a strategy, not touching the orchestrator.
type resolveStrategy interface {
	resolve(ctx context.Context, query string) ([]*domain.Track, error)
}

// directStrategy resolves a query through the track resolution backend.
// For playlist results every track is used in order; for track and search
// results only the first track is used; empty and unknown results are a
// "no usable tracks" condition.
type directStrategy struct {
	resolver ports.TrackResolver
}

func (s *directStrategy) resolve(ctx context.Context, query string) ([]*domain.Track, error) {
	sq := domain.NewSearchQuery(query)

	result, err := s.resolver.LoadTracks(ctx, sq.BackendQuery())
	if err != nil {
		return nil, ErrResolveFailed
	}

	switch result.Type {
	case ports.LoadTypePlaylist:
		tracks := make([]*domain.Track, 0, len(result.Tracks))
		for _, info := range result.Tracks {
			tracks = append(tracks, trackFromInfo(info, domain.OriginLink))
		}
		if len(tracks) == 0 {
			return nil, ErrNoResults
		}
		return tracks, nil

	case ports.LoadTypeTrack, ports.LoadTypeSearch:
		if len(result.Tracks) == 0 {
			return nil, ErrNoResults
		}
		origin := domain.OriginLink
		if result.Type == ports.LoadTypeSearch {
			origin = domain.OriginSearch
		}
		return []*domain.Track{trackFromInfo(result.Tracks[0], origin)}, nil

	default:
		// empty and unknown load types are treated identically
		return nil, ErrNoResults
	}
}

// catalogStrategy expands a catalog reference into descriptive queries and
// re-resolves each one independently through the direct strategy. A failure
// on one derived query is logged and skipped; it never aborts the rest.
type catalogStrategy struct {
	expander ports.CatalogExpander
	direct   *directStrategy
}

func (s *catalogStrategy) resolve(ctx context.Context, query string) ([]*domain.Track, error) {
	expansion, err := s.expander.Expand(ctx, query)
	if err != nil {
		slog.Error("catalog expansion failed", "query", query, "error", err)
		return nil, ErrCatalogFailed
	}

	var tracks []*domain.Track
	for _, derived := range expansion.Queries {
		resolved, err := s.direct.resolve(ctx, derived)
		if err != nil {
			slog.Warn("skipping unresolvable catalog entry", "query", derived, "error", err)
			continue
		}
		// one track per derived query, even if the backend returned more
		track := resolved[0]
		track.Origin = domain.OriginCatalog
		tracks = append(tracks, track)
	}

	return tracks, nil
}

func trackFromInfo(info *ports.TrackInfo, origin domain.TrackOrigin) *domain.Track {
	var artists []string
	if info.Author != "" {
		artists = []string{info.Author}
	}
	return &domain.Track{
		Encoded:    info.Encoded,
		Title:      info.Title,
		Artists:    artists,
		Duration:   info.Duration,
		URI:        info.URI,
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
		Origin:     origin,
	}
}
