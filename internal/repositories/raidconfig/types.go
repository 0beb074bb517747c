package raidconfig

import "github.com/KirkDiggler/raidcheck/internal/models"

type GetConfigInput struct {
	GuildID string
}

type SaveConfigInput struct {
	Config *models.RaidConfig
}

type DeleteConfigInput struct {
	GuildID string
}
