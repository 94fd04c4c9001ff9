package infrastructure

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/player/ports"
)

// Embed colors.
const (
	colorSuccess = 0x1DB954
	colorError   = 0xE74C3C
)

// successRemoveDelay is how long a success outcome stays visible before it
// is removed automatically.
const successRemoveDelay = 3 * time.Second

// DiscordNotifier renders request outcomes as channel embeds. Success
// messages are deleted after a fixed delay; deletion failures are
// non-critical and only logged.
type DiscordNotifier struct {
	session     *discordgo.Session
	removeDelay time.Duration
}

// NewDiscordNotifier creates a DiscordNotifier.
func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{
		session:     session,
		removeDelay: successRemoveDelay,
	}
}

// Notify renders the outcome in the given text channel.
func (n *DiscordNotifier) Notify(channelID snowflake.ID, outcome ports.Outcome) error {
	embed := &discordgo.MessageEmbed{
		Description: outcome.Message,
		Color:       colorError,
	}

	switch outcome.Kind {
	case ports.OutcomeSuccess:
		embed.Title = "Request Processed"
		embed.Color = colorSuccess
	case ports.OutcomeNoResults:
		embed.Title = "No Results"
	case ports.OutcomeResolveError:
		embed.Title = "Resolution Failed"
	default:
		embed.Title = "Error"
	}

	msg, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	if err != nil {
		return fmt.Errorf("failed to send outcome embed: %w", err)
	}

	if outcome.Kind == ports.OutcomeSuccess {
		n.scheduleRemoval(channelID.String(), msg.ID)
	}
	return nil
}

func (n *DiscordNotifier) scheduleRemoval(channelID, messageID string) {
	time.AfterFunc(n.removeDelay, func() {
		if err := n.session.ChannelMessageDelete(channelID, messageID); err != nil {
			slog.Warn("failed to remove outcome message",
				"channel", channelID, "message", messageID, "error", err)
		}
	})
}

// Ensure DiscordNotifier implements the port interface.
var _ ports.Notifier = (*DiscordNotifier)(nil)
