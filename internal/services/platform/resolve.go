package platform

import (
	"strings"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/bwmarrin/discordgo"
)

// stripMention turns "<#123>", "<@&123>" or "#name" into "123" / "name"
func stripMention(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">") {
		arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<"), ">")
		arg = strings.TrimLeft(arg, "#@&")
		return arg
	}
	return strings.TrimPrefix(arg, "#")
}

func channelKind(t discordgo.ChannelType) (models.ChannelKind, bool) {
	switch t {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return models.ChannelKindText, true
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return models.ChannelKindVoice, true
	}
	return "", false
}

// matchChannel finds a channel by ID first, then by case-insensitive name
func matchChannel(channels []*discordgo.Channel, arg string, want models.ChannelKind) (*models.Channel, error) {
	needle := stripMention(arg)
	if needle == "" {
		return nil, ErrChannelNotFound
	}

	var byName *discordgo.Channel
	for _, c := range channels {
		if c.ID == needle {
			return toChannel(c, want)
		}
		if byName == nil && strings.EqualFold(c.Name, needle) {
			if kind, ok := channelKind(c.Type); ok && kind == want {
				byName = c
			}
		}
	}

	if byName == nil {
		return nil, ErrChannelNotFound
	}
	return toChannel(byName, want)
}

func toChannel(c *discordgo.Channel, want models.ChannelKind) (*models.Channel, error) {
	kind, ok := channelKind(c.Type)
	if !ok || kind != want {
		return nil, ErrWrongChannelKind
	}
	return &models.Channel{
		ID:      c.ID,
		GuildID: c.GuildID,
		Name:    c.Name,
		Kind:    kind,
	}, nil
}

// matchRole finds a role by ID first, then by case-insensitive name
func matchRole(roles []*discordgo.Role, guildID, arg string) (*models.Role, error) {
	needle := strings.TrimPrefix(stripMention(arg), "@")
	if needle == "" {
		return nil, ErrRoleNotFound
	}

	var byName *discordgo.Role
	for _, r := range roles {
		if r.ID == needle {
			byName = r
			break
		}
		if byName == nil && strings.EqualFold(r.Name, needle) {
			byName = r
		}
	}

	if byName == nil {
		return nil, ErrRoleNotFound
	}
	return &models.Role{
		ID:      byName.ID,
		GuildID: guildID,
		Name:    byName.Name,
	}, nil
}
