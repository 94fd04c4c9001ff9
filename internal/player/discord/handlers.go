package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/bot"
	"github.com/hqtran/rhythmbot/internal/player/domain"
	"github.com/hqtran/rhythmbot/internal/player/ports"
	"github.com/hqtran/rhythmbot/internal/player/usecases"
)

// Embed colors.
const (
	colorSuccess = 0x1DB954
	colorError   = 0xE74C3C
)

// CommandHandlers holds the player module's command handlers.
type CommandHandlers struct {
	play       *usecases.PlayService
	control    *usecases.ControlService
	repo       domain.SessionRepository
	voiceState ports.VoiceStateProvider
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	play *usecases.PlayService,
	control *usecases.ControlService,
	repo domain.SessionRepository,
	voiceState ports.VoiceStateProvider,
) *CommandHandlers {
	return &CommandHandlers{
		play:       play,
		control:    control,
		repo:       repo,
		voiceState: voiceState,
	}
}

// HandlePlay handles the /play command. The interaction gets an immediate
// ephemeral acknowledgement; the request outcome itself is delivered by the
// notifier as a channel message.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}
	textChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	voiceChannelID, err := h.voiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil {
		return respondError(r, "Failed to read your voice state")
	}

	if err := respondEphemeral(r, "Processing your request..."); err != nil {
		return err
	}

	h.play.Handle(ctx, usecases.PlayRequest{
		GuildID:        guildID,
		TextChannelID:  textChannelID,
		UserID:         userID,
		VoiceChannelID: voiceChannelID,
		RequesterName:  requesterName(i),
		Query:          query,
	})

	return nil
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.control.Stop(context.Background(), guildID); err != nil {
		return respondError(r, err.Error())
	}
	return respondSuccess(r, "Stopped playback and cleared the queue.")
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.control.Pause(context.Background(), guildID); err != nil {
		return respondError(r, err.Error())
	}
	return respondSuccess(r, "Paused.")
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.control.Resume(context.Background(), guildID); err != nil {
		return respondError(r, err.Error())
	}
	return respondSuccess(r, "Resumed.")
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	next, err := h.control.Skip(context.Background(), guildID)
	if err != nil {
		return respondError(r, err.Error())
	}
	if next == nil {
		return respondSuccess(r, "Skipped. The queue is empty.")
	}
	return respondSuccess(r, fmt.Sprintf("Skipped. Now playing **%s**.", next.Title))
}

// HandleQueue handles the /queue command, showing pending tracks with their
// requester attribution.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	session := h.repo.Get(guildID)
	if session == nil {
		return respondError(r, usecases.ErrNoSession.Error())
	}

	var sb strings.Builder
	if current := session.Current(); current != nil {
		fmt.Fprintf(&sb, "**Now playing:** %s", current.Title)
		if requester := session.Requester(current.URI); requester != "" {
			fmt.Fprintf(&sb, " (requested by %s)", requester)
		}
		sb.WriteString("\n\n")
	}

	pending := session.Queue()
	if len(pending) == 0 && sb.Len() == 0 {
		return respondSuccess(r, "The queue is empty.")
	}
	for n, track := range pending {
		fmt.Fprintf(&sb, "%d. %s [%s]", n+1, track.Title, track.FormattedDuration())
		if requester := session.Requester(track.URI); requester != "" {
			fmt.Fprintf(&sb, " (requested by %s)", requester)
		}
		sb.WriteString("\n")
	}

	return respondSuccess(r, sb.String())
}

// requesterName returns the member's display name, falling back to username.
func requesterName(i *discordgo.InteractionCreate) string {
	if i.Member == nil || i.Member.User == nil {
		return "unknown"
	}
	if i.Member.Nick != "" {
		return i.Member.Nick
	}
	return i.Member.User.Username
}

func respondSuccess(r bot.Responder, message string) error {
	return respondEmbed(r, message, colorSuccess, false)
}

func respondError(r bot.Responder, message string) error {
	return respondEmbed(r, message, colorError, true)
}

func respondEphemeral(r bot.Responder, message string) error {
	return respondEmbed(r, message, colorSuccess, true)
}

func respondEmbed(r bot.Responder, message string, color int, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: message,
				Color:       color,
			},
		},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}
