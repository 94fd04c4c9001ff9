package ports

import "context"

// CatalogKind is the kind of catalog reference an expansion resolved to.
type CatalogKind string

const (
	CatalogTrack    CatalogKind = "track"
	CatalogPlaylist CatalogKind = "playlist"
)

// CatalogResult is the outcome of expanding a catalog reference: descriptive
// "<title> - <artists>" queries to be re-resolved by the track resolver.
type CatalogResult struct {
	Kind    CatalogKind
	Queries []string
}

// CatalogExpander defines the interface to an external music catalog.
type CatalogExpander interface {
	// Handles reports whether the raw query is a reference into this catalog.
	Handles(query string) bool

	// Expand converts a catalog track or playlist reference into descriptive
	// track queries, in catalog order. Items missing title or artist metadata
	// are skipped. A credential failure aborts expansion with an error.
	Expand(ctx context.Context, reference string) (*CatalogResult, error)
}
