package player

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/hqtran/rhythmbot/internal/bot"
	playerdiscord "github.com/hqtran/rhythmbot/internal/player/discord"
	"github.com/hqtran/rhythmbot/internal/player/infrastructure"
	"github.com/hqtran/rhythmbot/internal/player/usecases"
)

// connectGrace is the best-effort wait for a fresh session to connect before
// resolution proceeds.
const connectGrace = time.Second

// Module provides the music playback commands.
type Module struct {
	config    *Config
	handlers  *playerdiscord.CommandHandlers
	transport *infrastructure.LavalinkTransport
}

// Ensure Module satisfies the bot interfaces.
var (
	_ bot.Module             = (*Module)(nil)
	_ bot.ConfigurableModule = (*Module)(nil)
)

// Name returns the module name.
func (m *Module) Name() string {
	return "player"
}

// LoadConfig loads module configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return playerdiscord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"play":   m.handlers.HandlePlay,
		"stop":   m.handlers.HandleStop,
		"pause":  m.handlers.HandlePause,
		"resume": m.handlers.HandleResume,
		"skip":   m.handlers.HandleSkip,
		"queue":  m.handlers.HandleQueue,
	}
}

// EventHandlers returns the Discord event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.transport != nil {
				m.transport.OnVoiceServerUpdate(event)
			}
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.transport != nil {
				m.transport.OnVoiceStateUpdate(event)
			}
		},
	}
}

// Init wires the module once the Discord session exists.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	repo := infrastructure.NewMemoryRepository()

	transport, err := infrastructure.NewLavalinkTransport(
		deps.Session,
		repo,
		infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
		},
	)
	if err != nil {
		return err
	}
	m.transport = transport

	var catalog *infrastructure.SpotifyCatalog
	if m.config.SpotifyClientID != "" && m.config.SpotifyClientSecret != "" {
		catalog = infrastructure.NewSpotifyCatalog(
			m.config.SpotifyClientID,
			m.config.SpotifyClientSecret,
		)
	} else {
		slog.Warn("no catalog credentials configured, catalog links disabled")
	}

	notifier := infrastructure.NewDiscordNotifier(deps.Session)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	watchdog := usecases.NewWatchdog(transport, usecases.DefaultWatchdogConfig())

	play := newPlayService(repo, transport, catalog, notifier, watchdog)
	control := usecases.NewControlService(repo, transport)

	m.handlers = playerdiscord.NewCommandHandlers(play, control, repo, voiceState)

	slog.Info("player module initialized")
	return nil
}

func newPlayService(
	repo *infrastructure.MemoryRepository,
	transport *infrastructure.LavalinkTransport,
	catalog *infrastructure.SpotifyCatalog,
	notifier *infrastructure.DiscordNotifier,
	watchdog *usecases.Watchdog,
) *usecases.PlayService {
	// a nil *SpotifyCatalog must become a nil interface
	if catalog == nil {
		return usecases.NewPlayService(
			repo, transport, transport, nil, notifier, watchdog, connectGrace)
	}
	return usecases.NewPlayService(
		repo, transport, transport, catalog, notifier, watchdog, connectGrace)
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	if m.transport != nil {
		m.transport.Link().Close()
	}
	return nil
}
