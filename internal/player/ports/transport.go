package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/player/domain"
)

// AudioTransport defines the interface to the voice/streaming backend:
// per-guild connection lifecycle and playback control.
type AudioTransport interface {
	// Available reports whether at least one backend node is usable.
	Available() bool

	// Join asks the backend to connect to the given voice channel. The call
	// issues the connection request; connection completion is reported
	// asynchronously through the session's connection state.
	Join(ctx context.Context, guildID, channelID snowflake.ID) error

	// Leave tears down the guild's player and disconnects from voice.
	Leave(ctx context.Context, guildID snowflake.ID) error

	// Play starts playback of the given track.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error

	// Stop stops the current playback without disconnecting.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses the current playback.
	Pause(ctx context.Context, guildID snowflake.ID) error

	// Resume resumes paused playback.
	Resume(ctx context.Context, guildID snowflake.ID) error
}
