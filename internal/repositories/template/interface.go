package template

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/raidcheck/internal/repositories/template Repository

import (
	"context"

	"github.com/KirkDiggler/raidcheck/internal/models"
)

// Repository defines the interface for raid template persistence
type Repository interface {
	// SaveTemplate persists a template, replacing one with the same name
	SaveTemplate(ctx context.Context, input *SaveTemplateInput) error

	// GetTemplate retrieves a template by guild and name
	GetTemplate(ctx context.Context, input *GetTemplateInput) (*models.RaidTemplate, error)

	// ListTemplates retrieves every template of a guild
	ListTemplates(ctx context.Context, input *ListTemplatesInput) (*ListTemplatesOutput, error)

	// DeleteTemplate removes a template
	DeleteTemplate(ctx context.Context, input *DeleteTemplateInput) error
}
