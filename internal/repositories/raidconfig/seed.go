package raidconfig

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Configs []*models.RaidConfig `yaml:"configs"`
}

// LoadSeedFile reads guild raid settings from the configs section of a YAML file
func LoadSeedFile(path string) ([]*models.RaidConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return ParseSeed(data)
}

// ParseSeed parses guild raid settings. Unset fields take the built-in defaults.
func ParseSeed(data []byte) ([]*models.RaidConfig, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, cfg := range file.Configs {
		if cfg == nil || cfg.GuildID == "" {
			return nil, fmt.Errorf("config %d: %w", i, errors.New("guild id is required"))
		}
		if cfg.WindowSeconds < 0 {
			return nil, fmt.Errorf("config %d: window seconds cannot be negative", i)
		}
		if cfg.WindowSeconds == 0 {
			cfg.WindowSeconds = models.DefaultWindowSeconds
		}
		if cfg.PerkEmoji == "" {
			cfg.PerkEmoji = models.DefaultPerkEmoji
		}
	}

	return file.Configs, nil
}

// Seed stores every config, stopping at the first failure
func Seed(ctx context.Context, repo Repository, configs []*models.RaidConfig) error {
	for _, cfg := range configs {
		if err := repo.SaveConfig(ctx, &SaveConfigInput{Config: cfg}); err != nil {
			return fmt.Errorf("failed to seed config %s: %w", cfg.GuildID, err)
		}
	}
	return nil
}
