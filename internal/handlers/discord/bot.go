package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/raidcheck/internal/repositories/template"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
	"github.com/KirkDiggler/raidcheck/internal/services/raid"
	"github.com/bwmarrin/discordgo"
)

// Intents are the gateway events the bot needs: slash commands, reactions on
// announcements and private prompts, and voice states for room sweeps
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsDirectMessageReactions

// Bot represents the Discord bot instance
type Bot struct {
	session     *discordgo.Session
	commands    map[string]CommandHandler
	commandIDs  map[string]string // Maps command name to command ID
	raidService raid.Service
	config      *Config
	logger      *slog.Logger

	// ctx is the lifetime of the bot, raid sessions run inside it
	ctx context.Context
}

// Config holds the configuration for the bot
type Config struct {
	// Session is an unopened Discord session
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// RaidService runs raid sessions
	RaidService raid.Service

	// TemplateRepo lists the templates a guild can start
	TemplateRepo template.Repository

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if cfg.RaidService == nil {
		return nil, errors.New("raid service cannot be nil")
	}

	if cfg.TemplateRepo == nil {
		return nil, errors.New("template repository cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg.Session.Identify.Intents = Intents

	bot := &Bot{
		session:     cfg.Session,
		commands:    make(map[string]CommandHandler),
		commandIDs:  make(map[string]string),
		raidService: cfg.RaidService,
		config:      cfg,
		logger:      logger.With("component", "discord"),
		ctx:         context.Background(),
	}

	cfg.Session.AddHandler(bot.handleInteraction)
	cfg.Session.AddHandler(bot.handleReactionAdd)

	return bot, nil
}

// Start initializes the Discord connection and registers commands. Raid
// sessions started through the bot end when ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx

	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	raidCmd := NewRaidCommand(ctx, b.raidService, b.config.TemplateRepo, b.logger)
	if err := b.RegisterCommand(raidCmd); err != nil {
		return fmt.Errorf("failed to register raid command: %w", err)
	}

	b.logger.Info("bot is now running")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.appID()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command", "command", cmdName, "id", cmdID, "error", err)
		} else {
			b.logger.Debug("deleted command", "command", cmdName, "id", cmdID)
		}
	}

	return b.session.Close()
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// RegisterCommand registers a command with Discord. Commands are registered
// for the configured guild, or globally when no guild is set.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	guildID := b.config.GuildID
	if guildID != "" {
		b.logger.Info("registering command", "command", cmd.GetName(), "guild", guildID)
	} else {
		b.logger.Info("registering command globally", "command", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	// Store the command handler and its ID
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := b.commands[name]
	if !ok {
		return
	}
	if err := h.Handle(s, i); err != nil {
		b.logger.Error("error handling command", "command", name, "error", err)
	}
}

// handleReactionAdd forwards reactions to the raid service. The bot's own
// reactions never reach it.
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r == nil || r.MessageReaction == nil {
		return
	}
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	b.raidService.HandleReactionAdd(b.ctx, platform.ToReactionEvent(r.MessageReaction))
}
