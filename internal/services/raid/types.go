package raid

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/common/uuid"
	"github.com/KirkDiggler/raidcheck/internal/metrics"
	"github.com/KirkDiggler/raidcheck/internal/repositories/raidconfig"
	"github.com/KirkDiggler/raidcheck/internal/repositories/template"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
	"github.com/jonboulle/clockwork"
)

// SessionStatus represents the lifecycle stage of a raid session
type SessionStatus string

const (
	// StatusRunning indicates the collection window is open
	StatusRunning SessionStatus = "running"

	// StatusPostWindow indicates the window ended and the room was swept
	StatusPostWindow SessionStatus = "post_window"

	// StatusCancelled indicates a leader cancelled the raid
	StatusCancelled SessionStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible
func (s SessionStatus) IsTerminal() bool {
	return s == StatusPostWindow || s == StatusCancelled
}

// ReactionKey identifies a limited reaction tracker (the reaction's emoji)
type ReactionKey string

const (
	// DefaultTickInterval is how often the countdown is re-rendered
	DefaultTickInterval = 5 * time.Second

	// DefaultConfirmationTimeout is how long a private prompt waits for an answer
	DefaultConfirmationTimeout = 60 * time.Second
)

// Config holds the collaborators of the raid service
type Config struct {
	// Repository dependencies
	TemplateRepo template.Repository
	ConfigRepo   raidconfig.Repository

	// Platform dependencies
	Client   platform.Client
	Resolver platform.Resolver

	// Service dependencies
	Messaging     messaging.Service
	Clock         clockwork.Clock
	UUIDGenerator uuid.UUID

	// Metrics is optional
	Metrics *metrics.RaidMetrics

	// Logger defaults to slog.Default()
	Logger *slog.Logger

	// TickInterval defaults to DefaultTickInterval
	TickInterval time.Duration

	// ConfirmationTimeout defaults to DefaultConfirmationTimeout
	ConfirmationTimeout time.Duration
}

// StartSessionInput contains the arguments of a start command
type StartSessionInput struct {
	// GuildID is the guild the raid runs in
	GuildID string

	// StarterID is the member issuing the command
	StarterID string

	// TemplateName selects the raid template
	TemplateName string

	// AnnounceChannel is a mention, ID or name of a text channel
	AnnounceChannel string

	// Room is a mention, ID or name of a voice channel
	Room string

	// AdmissionRole is a mention, ID or name of a role. Required unless the
	// template admits only the starter.
	AdmissionRole string

	// Location is shared with confirmed members, may be empty
	Location string

	// Started is called once the announcement is posted and the window opens
	Started func(snapshot *SessionSnapshot)
}

// StartSessionOutput contains the result of a finished session
type StartSessionOutput struct {
	// Snapshot is the state of the session after the window ended
	Snapshot *SessionSnapshot
}

// SessionSnapshot is a copy of a session's observable state
type SessionSnapshot struct {
	ID           string
	GuildID      string
	TemplateName string
	StarterID    string

	AnnounceChannelID      string
	AnnounceMessageID      string
	ConfirmationsMessageID string
	RoomID                 string

	Status    SessionStatus
	Remaining time.Duration

	// Participants and Leaders are sorted member IDs
	Participants []string
	Leaders      []string

	// Confirmed maps each limited reaction to its sorted confirmed member IDs
	Confirmed map[ReactionKey][]string

	// StoppedBy is the leader who stopped or cancelled the raid
	StoppedBy string

	// Evicted are the sorted member IDs removed from the room by the sweep
	Evicted []string
}
