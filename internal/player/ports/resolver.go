package ports

import (
	"context"
	"time"
)

// TrackResolver defines the interface for loading/searching tracks.
type TrackResolver interface {
	// LoadTracks resolves a query into zero or more tracks.
	LoadTracks(ctx context.Context, query string) (*LoadResult, error)
}

// LoadResult represents the result of loading tracks.
type LoadResult struct {
	Type   LoadType
	Tracks []*TrackInfo
}

// LoadType represents the type of load result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// TrackInfo contains information about a loaded track.
type TrackInfo struct {
	Encoded    string
	Title      string
	Author     string
	Duration   time.Duration
	URI        string
	SourceName string
	IsStream   bool
}
