package discord

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/raid"
	"github.com/bwmarrin/discordgo"
)

const (
	colorSuccess = 0x2ecc71
	colorInfo    = 0x3498db
	colorError   = 0xe74c3c
)

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}
}

// startedEmbed tells the starter where their raid check was posted
func startedEmbed(snapshot *raid.SessionSnapshot) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s raid check started", snapshot.TemplateName),
		Description: fmt.Sprintf("Announcement posted in <#%s>. Members gather in <#%s>.",
			snapshot.AnnounceChannelID, snapshot.RoomID),
		Color: colorSuccess,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Session %s", snapshot.ID),
		},
	}
}

// templatesEmbed lists the templates a guild can start
func templatesEmbed(templates []*models.RaidTemplate) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Raid templates",
		Color: colorInfo,
	}
	if len(templates) == 0 {
		embed.Description = "This server has no raid templates yet."
		return embed
	}

	for _, tmpl := range templates {
		var value strings.Builder
		if tmpl.Description != "" {
			value.WriteString(tmpl.Description)
			value.WriteString("\n")
		}
		fmt.Fprintf(&value, "Join with %s", tmpl.Primary.Emoji)
		for _, def := range tmpl.Limited {
			if def.Limit > 0 {
				fmt.Fprintf(&value, " · %s %s (%d)", def.Emoji, def.Name, def.Limit)
			} else {
				fmt.Fprintf(&value, " · %s %s", def.Emoji, def.Name)
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  tmpl.Name,
			Value: value.String(),
		})
	}
	return embed
}
