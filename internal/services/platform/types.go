package platform

import "errors"

var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrWrongChannelKind = errors.New("channel has the wrong kind")
	ErrRoleNotFound     = errors.New("role not found")
	ErrMemberNotFound   = errors.New("member not found")
)

const (
	// PromptYesEmoji confirms a private prompt
	PromptYesEmoji = "✅"

	// PromptNoEmoji declines a private prompt
	PromptNoEmoji = "❌"
)

// Reply is a member's answer to a private prompt
type Reply string

const (
	ReplyYes  Reply = "yes"
	ReplyNo   Reply = "no"
	ReplyNone Reply = "none"
)

// Prompt is a private prompt waiting for an answer
type Prompt struct {
	UserID    string
	ChannelID string
	MessageID string
}

// AccessTarget is what a room permission overwrite applies to
type AccessTarget string

const (
	AccessTargetRole   AccessTarget = "role"
	AccessTargetMember AccessTarget = "member"
)

// SetRoomAccessInput contains parameters for changing room access
type SetRoomAccessInput struct {
	RoomID     string
	TargetID   string
	TargetType AccessTarget

	// Allow grants connect permission when true and denies it otherwise
	Allow bool
}
