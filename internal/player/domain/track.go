package domain

import (
	"strconv"
	"strings"
	"time"
)

// TrackOrigin tags how a track was resolved.
type TrackOrigin string

const (
	// OriginSearch marks tracks found through a plain text search.
	OriginSearch TrackOrigin = "search"
	// OriginLink marks tracks resolved from a direct link.
	OriginLink TrackOrigin = "link"
	// OriginCatalog marks tracks re-resolved from a catalog expansion.
	OriginCatalog TrackOrigin = "catalog"
)

// Track represents a playable audio track.
type Track struct {
	Encoded    string // Lavalink encoded track data
	Title      string
	Artists    []string
	Duration   time.Duration
	URI        string
	SourceName string // e.g., "youtube", "soundcloud"
	IsStream   bool
	Origin     TrackOrigin
	Requester  string // display name of the user who enqueued the track
	EnqueuedAt time.Time
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.Encoded != "" && t.Title != ""
}

// ArtistLine returns the comma-joined artist names, or an empty string.
func (t *Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
