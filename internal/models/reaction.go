package models

const (
	// StopEmoji lets a leader end the collection window early
	StopEmoji = "✅"

	// CancelEmoji lets a leader cancel the raid
	CancelEmoji = "❌"
)

// ReactionEvent is a reaction added to a message
type ReactionEvent struct {
	// GuildID is empty for reactions in private channels
	GuildID string

	ChannelID string
	MessageID string

	// UserID is the member who reacted
	UserID string

	// Emoji is the reaction identity ("🔑" or "name:id")
	Emoji string
}
