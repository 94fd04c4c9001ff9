package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/hqtran/rhythmbot/internal/player/ports"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// playlistPageSize is the catalog page size for playlist item fetches.
	playlistPageSize = 100

	unknownTitle  = "Unknown Track"
	unknownArtist = "Unknown Artist"
)

// SpotifyCatalog expands Spotify track and playlist references into
// descriptive "<title> - <artists>" queries for re-resolution. It holds only
// client credentials; the short-lived access token is fetched fresh before
// each expansion.
type SpotifyCatalog struct {
	creds clientcredentials.Config
}

// NewSpotifyCatalog creates a SpotifyCatalog with the given app credentials.
func NewSpotifyCatalog(clientID, clientSecret string) *SpotifyCatalog {
	return &SpotifyCatalog{
		creds: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		},
	}
}

// Handles reports whether the query is a link into the Spotify catalog.
func (c *SpotifyCatalog) Handles(query string) bool {
	u, err := url.Parse(strings.TrimSpace(query))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host == "spotify.com" || strings.HasSuffix(host, ".spotify.com")
}

// Expand converts a catalog reference into descriptive track queries.
func (c *SpotifyCatalog) Expand(
	ctx context.Context,
	reference string,
) (*ports.CatalogResult, error) {
	kind, id, err := parseReference(reference)
	if err != nil {
		return nil, err
	}

	// Credentials are short-lived; acquire a fresh token per fetch sequence.
	client, err := c.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire catalog credential: %w", err)
	}

	switch kind {
	case ports.CatalogTrack:
		return c.expandTrack(ctx, client, id)
	case ports.CatalogPlaylist:
		return c.expandPlaylist(ctx, client, id)
	default:
		return nil, fmt.Errorf("unsupported catalog reference: %s", reference)
	}
}

func (c *SpotifyCatalog) client(ctx context.Context) (*spotify.Client, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}
	return spotify.New(spotifyauth.New().Client(ctx, token)), nil
}

func (c *SpotifyCatalog) expandTrack(
	ctx context.Context,
	client *spotify.Client,
	id string,
) (*ports.CatalogResult, error) {
	track, err := client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to look up catalog track %s: %w", id, err)
	}

	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		names = append(names, artist.Name)
	}

	return &ports.CatalogResult{
		Kind:    ports.CatalogTrack,
		Queries: []string{describeTrack(track.Name, names)},
	}, nil
}

func (c *SpotifyCatalog) expandPlaylist(
	ctx context.Context,
	client *spotify.Client,
	id string,
) (*ports.CatalogResult, error) {
	page, err := client.GetPlaylistItems(ctx, spotify.ID(id), spotify.Limit(playlistPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog playlist %s: %w", id, err)
	}

	var queries []string
	for {
		for _, item := range page.Items {
			track := item.Track.Track
			// items missing a title or artist list cannot produce a usable
			// query; skip them rather than emit a malformed entry
			if track == nil || track.Name == "" || len(track.Artists) == 0 {
				slog.Debug("skipping catalog item without metadata", "playlist", id)
				continue
			}
			names := make([]string, 0, len(track.Artists))
			for _, artist := range track.Artists {
				names = append(names, artist.Name)
			}
			queries = append(queries, describeTrack(track.Name, names))
		}

		err = client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to page catalog playlist %s: %w", id, err)
		}
	}

	return &ports.CatalogResult{
		Kind:    ports.CatalogPlaylist,
		Queries: queries,
	}, nil
}

// describeTrack composes the re-resolution query for a catalog entry,
// substituting placeholders for missing fields.
func describeTrack(title string, artists []string) string {
	if title == "" {
		title = unknownTitle
	}
	if len(artists) == 0 {
		artists = []string{unknownArtist}
	}
	names := make([]string, len(artists))
	for i, name := range artists {
		if name == "" {
			name = unknownArtist
		}
		names[i] = name
	}
	return title + " - " + strings.Join(names, ", ")
}

// parseReference extracts the reference kind and ID from a catalog URL,
// e.g. https://open.spotify.com/playlist/<id>?si=... or /intl-fr/track/<id>.
func parseReference(reference string) (ports.CatalogKind, string, error) {
	u, err := url.Parse(strings.TrimSpace(reference))
	if err != nil {
		return "", "", fmt.Errorf("invalid catalog reference: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		switch segments[i] {
		case "track":
			return ports.CatalogTrack, segments[i+1], nil
		case "playlist":
			return ports.CatalogPlaylist, segments[i+1], nil
		}
	}

	return "", "", fmt.Errorf("unsupported catalog reference: %s", reference)
}

// Ensure SpotifyCatalog implements the port interface.
var _ ports.CatalogExpander = (*SpotifyCatalog)(nil)
