package raidconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	configKeyPrefix = "raid_config:"
)

// Config holds configuration for the Redis raid config repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed raid config repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func configKey(guildID string) string {
	return fmt.Sprintf("%s%s", configKeyPrefix, guildID)
}

// GetConfig retrieves the settings of a guild from Redis
func (r *redisRepository) GetConfig(ctx context.Context, input *GetConfigInput) (*models.RaidConfig, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	configJSON, err := r.client.Get(ctx, configKey(input.GuildID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.DefaultRaidConfig(input.GuildID), nil
		}
		return nil, fmt.Errorf("failed to get raid config: %w", err)
	}

	cfg := models.DefaultRaidConfig(input.GuildID)
	if err := json.Unmarshal([]byte(configJSON), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raid config: %w", err)
	}

	// Stored zero values fall back to the defaults
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = models.DefaultWindowSeconds
	}
	if cfg.PerkEmoji == "" {
		cfg.PerkEmoji = models.DefaultPerkEmoji
	}

	return cfg, nil
}

// SaveConfig persists the settings of a guild to Redis
func (r *redisRepository) SaveConfig(ctx context.Context, input *SaveConfigInput) error {
	if input == nil || input.Config == nil {
		return errors.New("input and config cannot be nil")
	}

	if input.Config.GuildID == "" {
		return errors.New("config guild ID cannot be empty")
	}

	if input.Config.WindowSeconds < 0 {
		return errors.New("window seconds cannot be negative")
	}

	configJSON, err := json.Marshal(input.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal raid config: %w", err)
	}

	if err := r.client.Set(ctx, configKey(input.Config.GuildID), configJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save raid config: %w", err)
	}

	return nil
}

// DeleteConfig removes the stored settings of a guild
func (r *redisRepository) DeleteConfig(ctx context.Context, input *DeleteConfigInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild ID cannot be empty")
	}

	if err := r.client.Del(ctx, configKey(input.GuildID)).Err(); err != nil {
		return fmt.Errorf("failed to delete raid config: %w", err)
	}

	return nil
}
