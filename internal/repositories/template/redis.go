package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	templateKeyPrefix       = "raid_template:"
	guildTemplatesKeyPrefix = "guild_templates:"
)

// ErrTemplateNotFound is returned when a template is not found
var ErrTemplateNotFound = errors.New("template not found")

// Config holds configuration for the Redis template repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock stamps UpdatedAt, defaults to the real clock
	Clock clockwork.Clock
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	clock  clockwork.Clock
}

// NewRedis creates a new Redis-backed template repository
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

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &redisRepository{
		client: cfg.RedisClient,
		clock:  clock,
	}, nil
}

// templateKey builds the key of a template. Names are case-insensitive.
func templateKey(guildID, name string) string {
	return fmt.Sprintf("%s%s:%s", templateKeyPrefix, guildID, strings.ToLower(name))
}

func guildTemplatesKey(guildID string) string {
	return fmt.Sprintf("%s%s", guildTemplatesKeyPrefix, guildID)
}

// SaveTemplate persists a template to Redis
func (r *redisRepository) SaveTemplate(ctx context.Context, input *SaveTemplateInput) error {
	if input == nil || input.Template == nil {
		return errors.New("input and template cannot be nil")
	}

	tmpl := input.Template
	if tmpl.GuildID == "" || tmpl.Name == "" {
		return errors.New("template guild ID and name cannot be empty")
	}

	tmpl.UpdatedAt = r.clock.Now()

	templateJSON, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, templateKey(tmpl.GuildID, tmpl.Name), templateJSON, 0)
	pipe.SAdd(ctx, guildTemplatesKey(tmpl.GuildID), strings.ToLower(tmpl.Name))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	return nil
}

// GetTemplate retrieves a template from Redis
func (r *redisRepository) GetTemplate(ctx context.Context, input *GetTemplateInput) (*models.RaidTemplate, error) {
	if input == nil || input.GuildID == "" || input.Name == "" {
		return nil, errors.New("input, guild ID and name cannot be empty")
	}

	templateJSON, err := r.client.Get(ctx, templateKey(input.GuildID, input.Name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	var tmpl models.RaidTemplate
	if err := json.Unmarshal([]byte(templateJSON), &tmpl); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template: %w", err)
	}

	return &tmpl, nil
}

// ListTemplates retrieves every template of a guild, sorted by name
func (r *redisRepository) ListTemplates(ctx context.Context, input *ListTemplatesInput) (*ListTemplatesOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	names, err := r.client.SMembers(ctx, guildTemplatesKey(input.GuildID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	sort.Strings(names)

	templates := make([]*models.RaidTemplate, 0, len(names))
	for _, name := range names {
		tmpl, err := r.GetTemplate(ctx, &GetTemplateInput{
			GuildID: input.GuildID,
			Name:    name,
		})
		if err != nil {
			// Index entry without a document, skip it
			if errors.Is(err, ErrTemplateNotFound) {
				continue
			}
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	return &ListTemplatesOutput{
		Templates: templates,
	}, nil
}

// DeleteTemplate removes a template from Redis
func (r *redisRepository) DeleteTemplate(ctx context.Context, input *DeleteTemplateInput) error {
	if input == nil || input.GuildID == "" || input.Name == "" {
		return errors.New("input, guild ID and name cannot be empty")
	}

	pipe := r.client.TxPipeline()
	deleted := pipe.Del(ctx, templateKey(input.GuildID, input.Name))
	pipe.SRem(ctx, guildTemplatesKey(input.GuildID), strings.ToLower(input.Name))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if deleted.Val() == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
