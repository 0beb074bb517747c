package template

import "github.com/KirkDiggler/raidcheck/internal/models"

type SaveTemplateInput struct {
	Template *models.RaidTemplate
}

type GetTemplateInput struct {
	GuildID string
	Name    string
}

type ListTemplatesInput struct {
	GuildID string
}

type ListTemplatesOutput struct {
	Templates []*models.RaidTemplate
}

type DeleteTemplateInput struct {
	GuildID string
	Name    string
}
