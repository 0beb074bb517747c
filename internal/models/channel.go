package models

// ChannelKind separates text capable channels from voice capable ones
type ChannelKind string

const (
	// ChannelKindText is a channel messages can be posted to
	ChannelKindText ChannelKind = "text"

	// ChannelKindVoice is a channel members can connect to
	ChannelKindVoice ChannelKind = "voice"
)

// Channel is a resolved guild channel
type Channel struct {
	ID      string
	GuildID string
	Name    string
	Kind    ChannelKind
}

// Role is a resolved guild role
type Role struct {
	ID      string
	GuildID string
	Name    string
}
