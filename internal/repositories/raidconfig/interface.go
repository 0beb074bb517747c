package raidconfig

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/raidcheck/internal/repositories/raidconfig Repository

import (
	"context"

	"github.com/KirkDiggler/raidcheck/internal/models"
)

// Repository defines the interface for guild raid settings persistence
type Repository interface {
	// GetConfig retrieves the settings of a guild, falling back to the
	// built-in defaults when the guild has none stored
	GetConfig(ctx context.Context, input *GetConfigInput) (*models.RaidConfig, error)

	// SaveConfig persists the settings of a guild
	SaveConfig(ctx context.Context, input *SaveConfigInput) error

	// DeleteConfig removes stored settings, reverting the guild to the defaults
	DeleteConfig(ctx context.Context, input *DeleteConfigInput) error
}
