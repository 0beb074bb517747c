package messaging

import (
	"time"

	"github.com/KirkDiggler/raidcheck/internal/models"
)

// Phase is the stage of a raid as the announcement shows it
type Phase string

const (
	// PhaseOpen is a running collection window
	PhaseOpen Phase = "open"

	// PhaseClosed is a window that ran out
	PhaseClosed Phase = "closed"

	// PhaseStopped is a window a leader ended early
	PhaseStopped Phase = "stopped"

	// PhaseCancelled is a raid a leader cancelled
	PhaseCancelled Phase = "cancelled"
)

// NoticeKind is the reason a private notice is sent
type NoticeKind string

const (
	// NoticeConfirmed tells a member their limited reaction was accepted
	NoticeConfirmed NoticeKind = "confirmed"

	// NoticeSlotFull tells a member the limited reaction filled up first
	NoticeSlotFull NoticeKind = "slot_full"

	// NoticeWithdrawn tells a member their reaction was withdrawn
	NoticeWithdrawn NoticeKind = "withdrawn"

	// NoticePerk acknowledges a booster reaction
	NoticePerk NoticeKind = "perk"
)

const (
	colorOpen      = 0x2ecc71
	colorClosed    = 0x3498db
	colorStopped   = 0xe67e22
	colorCancelled = 0xe74c3c
)

// LimitedSummary is the state of one limited reaction
type LimitedSummary struct {
	Emoji string
	Name  string
	Limit int

	// ConfirmedNames are the display names of confirmed members, in display order
	ConfirmedNames []string
}

// RenderAnnouncementInput contains the data shown on the announcement
type RenderAnnouncementInput struct {
	TemplateName string
	Description  string
	StarterName  string
	RoomName     string
	Phase        Phase

	// Remaining is the time left in the window
	Remaining time.Duration

	ParticipantCount int
	LeaderCount      int

	Primary models.ReactionDefinition
	Limited []LimitedSummary

	// PerkEmoji is set when the booster reaction is honored
	PerkEmoji string

	// StoppedByName is the leader who stopped or cancelled the raid
	StoppedByName string
}

// RenderConfirmationsInput contains the data shown on the confirmations display
type RenderConfirmationsInput struct {
	TemplateName string
	StarterName  string
	Limited      []LimitedSummary
}

// RenderPromptInput contains the data shown on a private confirmation prompt
type RenderPromptInput struct {
	TemplateName string
	Reaction     models.ReactionDefinition
	Timeout      time.Duration
}

// RenderNoticeInput contains the data shown on a private notice
type RenderNoticeInput struct {
	Kind         NoticeKind
	TemplateName string
	Reaction     models.ReactionDefinition

	// Location is included when known
	Location string
}

// RenderOutput is a rendered message
type RenderOutput struct {
	Message *models.Message
}
