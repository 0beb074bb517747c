package template

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk layout of a template seed file
type seedFile struct {
	Templates []*models.RaidTemplate `yaml:"templates"`
}

// LoadSeedFile reads and validates raid templates from a YAML file
func LoadSeedFile(path string) ([]*models.RaidTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return ParseSeed(data)
}

// ParseSeed parses and validates raid templates from YAML
func ParseSeed(data []byte) ([]*models.RaidTemplate, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, tmpl := range file.Templates {
		if err := validateTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		if tmpl.AdmissionScope == "" {
			tmpl.AdmissionScope = models.AdmissionScopeRole
		}
	}

	return file.Templates, nil
}

// Seed stores every template, stopping at the first failure
func Seed(ctx context.Context, repo Repository, templates []*models.RaidTemplate) error {
	for _, tmpl := range templates {
		if err := repo.SaveTemplate(ctx, &SaveTemplateInput{Template: tmpl}); err != nil {
			return fmt.Errorf("failed to seed template %s/%s: %w", tmpl.GuildID, tmpl.Name, err)
		}
	}
	return nil
}

func validateTemplate(tmpl *models.RaidTemplate) error {
	if tmpl == nil {
		return errors.New("template cannot be empty")
	}
	if tmpl.GuildID == "" {
		return errors.New("guild_id is required")
	}
	if tmpl.Name == "" {
		return errors.New("name is required")
	}
	if tmpl.Primary.Emoji == "" {
		return errors.New("primary emoji is required")
	}

	seen := map[string]bool{
		models.StopEmoji:   true,
		models.CancelEmoji: true,
	}
	if seen[tmpl.Primary.Emoji] {
		return fmt.Errorf("primary emoji %s is reserved", tmpl.Primary.Emoji)
	}
	seen[tmpl.Primary.Emoji] = true
	for _, def := range tmpl.Limited {
		if def.Emoji == "" {
			return errors.New("limited reaction emoji is required")
		}
		if def.Limit < 0 {
			return fmt.Errorf("limited reaction %s has a negative limit", def.Emoji)
		}
		if seen[def.Emoji] {
			return fmt.Errorf("reaction %s is used twice", def.Emoji)
		}
		seen[def.Emoji] = true
	}

	switch tmpl.AdmissionScope {
	case "", models.AdmissionScopeRole, models.AdmissionScopeStarter:
	default:
		return fmt.Errorf("unknown admission scope %q", tmpl.AdmissionScope)
	}

	return nil
}
