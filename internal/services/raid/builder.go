package raid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/repositories/raidconfig"
	"github.com/KirkDiggler/raidcheck/internal/repositories/template"
)

// buildSession validates a start command and resolves everything a session
// needs. Nothing is posted and no state is kept when it fails.
func (s *service) buildSession(ctx context.Context, input *StartSessionInput) (*RaidSession, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}
	if input.GuildID == "" || input.StarterID == "" {
		return nil, fmt.Errorf("%w: raids can only be started by a guild member", ErrInvalidInput)
	}
	templateName := strings.TrimSpace(input.TemplateName)
	if templateName == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrInvalidInput)
	}

	tmpl, err := s.templateRepo.GetTemplate(ctx, &template.GetTemplateInput{
		GuildID: input.GuildID,
		Name:    templateName,
	})
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
		}
		return nil, fmt.Errorf("failed to load template %s: %w", templateName, err)
	}

	cfg, err := s.configRepo.GetConfig(ctx, &raidconfig.GetConfigInput{
		GuildID: input.GuildID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load raid config: %w", err)
	}

	announce, err := s.resolver.ResolveTextChannel(ctx, input.GuildID, input.AnnounceChannel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAnnounceChannelInvalid, input.AnnounceChannel)
	}

	room, err := s.resolver.ResolveVoiceChannel(ctx, input.GuildID, input.Room)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomInvalid, input.Room)
	}

	var role *models.Role
	switch {
	case input.AdmissionRole != "":
		role, err = s.resolver.ResolveRole(ctx, input.GuildID, input.AdmissionRole)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrRoleInvalid, input.AdmissionRole)
		}
	case tmpl.AdmissionScope != models.AdmissionScopeStarter:
		return nil, fmt.Errorf("%w: template %s needs an admission role", ErrRoleInvalid, tmpl.Name)
	}

	starter, err := s.client.GetMember(ctx, input.GuildID, input.StarterID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStarterNotFound, input.StarterID)
	}

	return newRaidSession(&sessionParams{
		ID:              s.uuidGenerator.NewUUID(),
		GuildID:         input.GuildID,
		Template:        tmpl,
		Config:          cfg,
		Starter:         starter,
		AnnounceChannel: announce,
		Room:            room,
		AdmissionRole:   role,
		Location:        strings.TrimSpace(input.Location),
	}), nil
}
