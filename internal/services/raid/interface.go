package raid

import (
	"context"

	"github.com/KirkDiggler/raidcheck/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/raidcheck/internal/services/raid Service

// Service defines the interface for raid check operations
type Service interface {
	// StartSession builds a raid session, opens its collection window and
	// blocks until the window has ended. Precondition failures are returned
	// before anything is posted.
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)

	// HandleReactionAdd routes a reaction to the session owning the message.
	// Reactions on other messages are ignored.
	HandleReactionAdd(ctx context.Context, event *models.ReactionEvent)

	// ActiveSessions returns the number of sessions with an open window
	ActiveSessions() int

	// Shutdown refuses new sessions, ends every open window through the
	// normal end sequence, abandons pending confirmations and waits for all
	// of it to finish or for ctx to expire
	Shutdown(ctx context.Context) error
}
