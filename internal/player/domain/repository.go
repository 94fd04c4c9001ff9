package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository defines the interface for storing and retrieving sessions.
// Implementations must hold at most one Session per guild.
type SessionRepository interface {
	// Get returns the Session for the given guild, or nil if none exists.
	Get(guildID snowflake.ID) *Session

	// Save stores the Session, replacing any existing one for the guild.
	Save(session *Session)

	// Delete removes the Session for the given guild.
	Delete(guildID snowflake.ID)
}
