package bot

import "github.com/bwmarrin/discordgo"

// InteractionHandler handles a Discord slash command interaction.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// EventHandler is a generic handler for any Discord event. It must match one
// of discordgo's handler signatures, e.g.
// func(s *discordgo.Session, e *discordgo.VoiceStateUpdate)
type EventHandler any

// ModuleDependencies provides dependencies that modules need during Init.
type ModuleDependencies struct {
	Session *discordgo.Session
}

// Module defines the interface that bot modules implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Commands returns the slash commands this module provides.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers returns a map of command names to their handlers.
	CommandHandlers() map[string]InteractionHandler

	// EventHandlers returns the Discord event handlers for this module.
	EventHandlers() []EventHandler

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ConfigurableModule is an optional interface for modules with configuration.
// LoadConfig is called before the Discord connection is established and
// before Init.
type ConfigurableModule interface {
	LoadConfig() error
}
