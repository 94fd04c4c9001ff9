package domain

import (
	"net/url"
	"strings"
)

// ytSearchPrefix is the Lavalink search prefix used for plain text queries.
const ytSearchPrefix = "ytsearch:"

// SearchQuery is a classified playback query: either a direct URL or a plain
// search phrase.
type SearchQuery struct {
	Raw   string
	IsURL bool
}

// NewSearchQuery classifies raw user input.
func NewSearchQuery(input string) SearchQuery {
	input = strings.TrimSpace(input)
	return SearchQuery{
		Raw:   input,
		IsURL: isURL(input),
	}
}

// BackendQuery returns the query string to hand to the resolution backend:
// URLs pass through unchanged, plain phrases get the search prefix.
func (q SearchQuery) BackendQuery() string {
	if q.IsURL {
		return q.Raw
	}
	return ytSearchPrefix + q.Raw
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
