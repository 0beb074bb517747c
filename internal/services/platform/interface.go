package platform

import (
	"context"

	"github.com/KirkDiggler/raidcheck/internal/models"
)

// Client is the part of the chat platform the raid coordinator talks to
type Client interface {
	// GetMember looks up a guild member
	GetMember(ctx context.Context, guildID, userID string) (*models.Member, error)

	// SendMessage posts a message to a channel and returns the message ID
	SendMessage(ctx context.Context, channelID string, msg *models.Message) (string, error)

	// EditMessage replaces the content of a posted message
	EditMessage(ctx context.Context, channelID, messageID string, msg *models.Message) error

	// AddReaction reacts to a message as the bot
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error

	// SendPrompt sends a member a private yes/no prompt
	SendPrompt(ctx context.Context, userID string, msg *models.Message) (*Prompt, error)

	// AwaitPromptReply blocks until the member answers the prompt or ctx is done.
	// When ctx is done it returns ReplyNone together with ctx.Err().
	AwaitPromptReply(ctx context.Context, prompt *Prompt) (Reply, error)

	// SendDirectMessage sends a member a private notice
	SendDirectMessage(ctx context.Context, userID string, msg *models.Message) error

	// SetRoomAccess grants or revokes connect permission on a room
	SetRoomAccess(ctx context.Context, input *SetRoomAccessInput) error

	// ListRoomOccupants returns the IDs of the members connected to a room
	ListRoomOccupants(ctx context.Context, guildID, roomID string) ([]string, error)

	// MoveMember moves a member to another room. An empty channelID disconnects them.
	MoveMember(ctx context.Context, guildID, userID, channelID string) error
}

//go:generate mockgen -package=mocks -destination=mocks/mock_resolver.go github.com/KirkDiggler/raidcheck/internal/services/platform Resolver

// Resolver turns free-text command arguments into platform entities
type Resolver interface {
	// ResolveTextChannel resolves a mention, ID or name to a text capable channel
	ResolveTextChannel(ctx context.Context, guildID, arg string) (*models.Channel, error)

	// ResolveVoiceChannel resolves a mention, ID or name to a voice capable channel
	ResolveVoiceChannel(ctx context.Context, guildID, arg string) (*models.Channel, error)

	// ResolveRole resolves a mention, ID or name to a role
	ResolveRole(ctx context.Context, guildID, arg string) (*models.Role, error)
}
