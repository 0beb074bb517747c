package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/raidcheck/internal/repositories/template"
	"github.com/KirkDiggler/raidcheck/internal/services/raid"
	"github.com/bwmarrin/discordgo"
)

// Option names of the start subcommand
const (
	optionTemplate = "template"
	optionChannel  = "channel"
	optionRoom     = "room"
	optionRole     = "role"
	optionLocation = "location"
)

// RaidCommand handles the /raid command
type RaidCommand struct {
	BaseCommand
	ctx          context.Context
	raidService  raid.Service
	templateRepo template.Repository
	logger       *slog.Logger
}

// NewRaidCommand creates a new raid command handler. Sessions it starts run
// until ctx is cancelled at the latest.
func NewRaidCommand(ctx context.Context, raidService raid.Service, templateRepo template.Repository, logger *slog.Logger) *RaidCommand {
	return &RaidCommand{
		BaseCommand: BaseCommand{
			Name:        "raid",
			Description: "Raid check commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a raid check",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optionTemplate,
							Description: "Raid template name",
							Required:    true,
						},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         optionChannel,
							Description:  "Channel to post the announcement in",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
						},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         optionRoom,
							Description:  "Voice channel the raid gathers in",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice},
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        optionRole,
							Description: "Role that may join the room",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optionLocation,
							Description: "Location shared with confirmed members",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "templates",
					Description: "List the raid templates of this server",
				},
			},
		},
		ctx:          ctx,
		raidService:  raidService,
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// Handle processes a Discord interaction for the raid command
func (c *RaidCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return RespondWithError(s, i, "Raids can only be run inside a server.")
	}

	sub := data.Options[0]
	switch sub.Name {
	case "start":
		return c.handleStart(s, i, sub.Options)
	case "templates":
		return c.handleTemplates(s, i)
	default:
		return errors.New("unknown subcommand")
	}
}

// handleStart acknowledges the command and runs the session in the background.
// The deferred response is edited once the raid is posted or refused.
func (c *RaidCommand) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	input := startInputFromOptions(i.GuildID, i.Member.User.ID, options)

	if err := DeferEphemeral(s, i); err != nil {
		return fmt.Errorf("failed to acknowledge start: %w", err)
	}

	input.Started = func(snapshot *raid.SessionSnapshot) {
		if err := EditDeferred(s, i, startedEmbed(snapshot)); err != nil {
			c.logger.Warn("failed to confirm raid start", "session", snapshot.ID, "error", err)
		}
	}

	go c.runSession(s, i, input)
	return nil
}

func (c *RaidCommand) runSession(s *discordgo.Session, i *discordgo.InteractionCreate, input *raid.StartSessionInput) {
	out, err := c.raidService.StartSession(c.ctx, input)
	if err != nil {
		if !raid.IsPrecondition(err) {
			c.logger.Error("raid session failed", "guild", input.GuildID, "template", input.TemplateName, "error", err)
		}
		if editErr := EditDeferred(s, i, errorEmbed(describeStartError(err))); editErr != nil {
			c.logger.Warn("failed to report start error", "error", editErr)
		}
		return
	}

	c.logger.Info("raid session finished",
		"session", out.Snapshot.ID,
		"status", out.Snapshot.Status,
		"participants", len(out.Snapshot.Participants),
	)
}

func (c *RaidCommand) handleTemplates(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	out, err := c.templateRepo.ListTemplates(c.ctx, &template.ListTemplatesInput{
		GuildID: i.GuildID,
	})
	if err != nil {
		c.logger.Error("failed to list templates", "guild", i.GuildID, "error", err)
		return RespondWithError(s, i, "Could not load the raid templates, try again later.")
	}
	return RespondWithEmbed(s, i, templatesEmbed(out.Templates))
}

// startInputFromOptions maps the start subcommand options onto a session input
func startInputFromOptions(guildID, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) *raid.StartSessionInput {
	input := &raid.StartSessionInput{
		GuildID:   guildID,
		StarterID: userID,
	}
	for _, opt := range options {
		value := strings.TrimSpace(fmt.Sprint(opt.Value))
		switch opt.Name {
		case optionTemplate:
			input.TemplateName = value
		case optionChannel:
			input.AnnounceChannel = value
		case optionRoom:
			input.Room = value
		case optionRole:
			input.AdmissionRole = value
		case optionLocation:
			input.Location = value
		}
	}
	return input
}

// describeStartError turns a start failure into a message for the invoker
func describeStartError(err error) string {
	switch {
	case errors.Is(err, raid.ErrTemplateNotFound):
		return "There is no raid template with that name. Use `/raid templates` to see the available ones."
	case errors.Is(err, raid.ErrAnnounceChannelInvalid):
		return "The announcement channel must be a text channel I can post in."
	case errors.Is(err, raid.ErrRoomInvalid):
		return "The room must be a voice channel."
	case errors.Is(err, raid.ErrRoleInvalid):
		return "This template needs a valid admission role."
	case errors.Is(err, raid.ErrStarterNotFound):
		return "I could not find you in this server."
	case errors.Is(err, raid.ErrRoomBusy):
		return "A raid check is already running in that room."
	case errors.Is(err, raid.ErrInvalidInput):
		return "Please provide a template name, an announcement channel and a room."
	case errors.Is(err, raid.ErrShuttingDown):
		return "The bot is restarting, try again in a minute."
	case errors.Is(err, raid.ErrAnnounceFailed):
		return "I could not post the announcement. Check my permissions in that channel."
	default:
		return "Something went wrong starting the raid check."
	}
}
