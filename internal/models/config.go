package models

// DefaultWindowSeconds is the collection window used when a guild has no stored config
const DefaultWindowSeconds = 300

// DefaultPerkEmoji is the booster reaction used when a guild does not set its own
const DefaultPerkEmoji = "🚀"

// RaidConfig holds the guild level settings a raid session reads once at start
type RaidConfig struct {
	// GuildID is the guild these settings belong to
	GuildID string `json:"guild_id" yaml:"guild_id"`

	// WindowSeconds is the length of the collection window
	WindowSeconds int `json:"window_seconds" yaml:"window_seconds"`

	// PerkEnabled turns on the booster reaction
	PerkEnabled bool `json:"perk_enabled" yaml:"perk_enabled"`

	// PerkEmoji is the booster reaction identity
	PerkEmoji string `json:"perk_emoji,omitempty" yaml:"perk_emoji,omitempty"`

	// ConfirmationsChannelID is where the confirmations display is posted, empty disables it
	ConfirmationsChannelID string `json:"confirmations_channel_id,omitempty" yaml:"confirmations_channel_id,omitempty"`

	// FallbackChannelID is where swept members are moved, empty disconnects them instead
	FallbackChannelID string `json:"fallback_channel_id,omitempty" yaml:"fallback_channel_id,omitempty"`

	// LeaderRoleIDs are the roles that grant leadership of a raid
	LeaderRoleIDs []string `json:"leader_role_ids,omitempty" yaml:"leader_role_ids,omitempty"`
}

// DefaultRaidConfig returns the built-in settings for a guild
func DefaultRaidConfig(guildID string) *RaidConfig {
	return &RaidConfig{
		GuildID:       guildID,
		WindowSeconds: DefaultWindowSeconds,
		PerkEmoji:     DefaultPerkEmoji,
	}
}
