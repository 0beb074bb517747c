package models

import (
	"time"
)

// AdmissionScope decides who is granted connect access to the raid room
type AdmissionScope string

const (
	// AdmissionScopeRole grants access to the admission role passed on the command
	AdmissionScopeRole AdmissionScope = "role"

	// AdmissionScopeStarter grants access only to the member who started the raid
	AdmissionScopeStarter AdmissionScope = "starter"
)

// ReactionDefinition describes one reaction a raid template puts on the announcement
type ReactionDefinition struct {
	// Emoji is the reaction identity as the platform reports it
	// ("🔑" for unicode, "name:id" for custom emoji)
	Emoji string `json:"emoji" yaml:"emoji"`

	// Name is a human readable label used when rendering
	Name string `json:"name" yaml:"name"`

	// Limit is the maximum number of confirmed members, 0 means unbounded
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// RaidTemplate is a reusable raid definition scoped to a guild
type RaidTemplate struct {
	// GuildID is the guild the template belongs to
	GuildID string `json:"guild_id" yaml:"guild_id"`

	// Name identifies the template inside its guild
	Name string `json:"name" yaml:"name"`

	// Description is shown on the announcement
	Description string `json:"description" yaml:"description"`

	// Primary is the reaction that registers participation
	Primary ReactionDefinition `json:"primary" yaml:"primary"`

	// Limited are the reactions that require a private confirmation.
	// Their order is the order trackers are created and rendered in.
	Limited []ReactionDefinition `json:"limited,omitempty" yaml:"limited,omitempty"`

	// Additional are cosmetic reactions with no behaviour attached
	Additional []ReactionDefinition `json:"additional,omitempty" yaml:"additional,omitempty"`

	// AdmissionScope decides who receives room access when the raid opens
	AdmissionScope AdmissionScope `json:"admission_scope,omitempty" yaml:"admission_scope,omitempty"`

	// UpdatedAt is when the template was last stored
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}
