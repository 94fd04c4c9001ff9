package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// OutcomeKind classifies a playback request outcome for presentation.
type OutcomeKind int

const (
	// OutcomeValidation is a precondition failure (no voice channel, no backend).
	OutcomeValidation OutcomeKind = iota
	// OutcomeNoResults is a well-formed "nothing found" result.
	OutcomeNoResults
	// OutcomeResolveError is a resolution or catalog backend failure.
	OutcomeResolveError
	// OutcomeSuccess is a completed request.
	OutcomeSuccess
)

// Outcome is the single user-visible result of a playback request.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// Notifier renders request outcomes to the user. The notifier owns
// presentation concerns, including auto-removal of success messages.
type Notifier interface {
	// Notify renders the outcome in the given text channel. Delivery failures
	// are the notifier's to log; they never surface to the requester.
	Notify(channelID snowflake.ID, outcome Outcome) error
}
