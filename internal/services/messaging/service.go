package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/models"
)

// service implements the Service interface
type service struct{}

// NewService creates a new messaging service
func NewService() Service {
	return &service{}
}

// FormatRemaining renders a duration as "4m 05s"
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}

func reactionLabel(def models.ReactionDefinition) string {
	if def.Name == "" {
		return def.Emoji
	}
	return fmt.Sprintf("%s %s", def.Emoji, def.Name)
}

func capacity(count, limit int) string {
	if limit <= 0 {
		return fmt.Sprintf("%d", count)
	}
	return fmt.Sprintf("%d/%d", count, limit)
}

// RenderAnnouncement renders the public raid announcement
func (s *service) RenderAnnouncement(ctx context.Context, input *RenderAnnouncementInput) (*RenderOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	embed := &models.Embed{
		Fields: []models.EmbedField{
			{Name: "Raiders", Value: fmt.Sprintf("%d", input.ParticipantCount), Inline: true},
			{Name: "Leaders", Value: fmt.Sprintf("%d", input.LeaderCount), Inline: true},
		},
	}

	var desc strings.Builder
	if input.Description != "" {
		desc.WriteString(input.Description)
		desc.WriteString("\n\n")
	}

	switch input.Phase {
	case PhaseOpen:
		embed.Title = fmt.Sprintf("%s raid check started by %s", input.TemplateName, input.StarterName)
		embed.Color = colorOpen
		fmt.Fprintf(&desc, "React with %s to join **%s**.", reactionLabel(input.Primary), input.RoomName)
		for _, l := range input.Limited {
			fmt.Fprintf(&desc, "\nReact with %s if you are bringing it, you will be asked to confirm.", reactionLabel(models.ReactionDefinition{Emoji: l.Emoji, Name: l.Name}))
		}
		if input.PerkEmoji != "" {
			fmt.Fprintf(&desc, "\nBoosters can react with %s for early location.", input.PerkEmoji)
		}
		embed.Footer = fmt.Sprintf("Time remaining: %s", FormatRemaining(input.Remaining))
	case PhaseClosed:
		embed.Title = fmt.Sprintf("%s raid check closed", input.TemplateName)
		embed.Color = colorClosed
		desc.WriteString("The raid check has ended.")
		embed.Footer = "Raid check finished"
	case PhaseStopped:
		embed.Title = fmt.Sprintf("%s raid check closed", input.TemplateName)
		embed.Color = colorStopped
		fmt.Fprintf(&desc, "The raid check was ended early by %s.", input.StoppedByName)
		embed.Footer = "Raid check finished"
	case PhaseCancelled:
		embed.Title = fmt.Sprintf("%s raid cancelled", input.TemplateName)
		embed.Color = colorCancelled
		fmt.Fprintf(&desc, "The raid was cancelled by %s.", input.StoppedByName)
		embed.Footer = "Raid cancelled"
	default:
		return nil, fmt.Errorf("unknown phase %q", input.Phase)
	}
	embed.Description = desc.String()

	for _, l := range input.Limited {
		embed.Fields = append(embed.Fields, models.EmbedField{
			Name:   reactionLabel(models.ReactionDefinition{Emoji: l.Emoji, Name: l.Name}),
			Value:  capacity(len(l.ConfirmedNames), l.Limit),
			Inline: true,
		})
	}

	return &RenderOutput{
		Message: &models.Message{Embed: embed},
	}, nil
}

// RenderConfirmations renders the list of confirmed limited reactions
func (s *service) RenderConfirmations(ctx context.Context, input *RenderConfirmationsInput) (*RenderOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	embed := &models.Embed{
		Title: fmt.Sprintf("%s confirmations (%s)", input.TemplateName, input.StarterName),
		Color: colorClosed,
	}

	for _, l := range input.Limited {
		value := "None"
		if len(l.ConfirmedNames) > 0 {
			value = strings.Join(l.ConfirmedNames, "\n")
		}
		embed.Fields = append(embed.Fields, models.EmbedField{
			Name:  fmt.Sprintf("%s (%s)", reactionLabel(models.ReactionDefinition{Emoji: l.Emoji, Name: l.Name}), capacity(len(l.ConfirmedNames), l.Limit)),
			Value: value,
		})
	}

	if len(embed.Fields) == 0 {
		embed.Description = "This raid has no limited reactions."
	}

	return &RenderOutput{
		Message: &models.Message{Embed: embed},
	}, nil
}

// RenderPrompt renders the private yes/no confirmation prompt
func (s *service) RenderPrompt(ctx context.Context, input *RenderPromptInput) (*RenderOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	return &RenderOutput{
		Message: &models.Message{
			Embed: &models.Embed{
				Title: fmt.Sprintf("%s raid: confirm %s", input.TemplateName, reactionLabel(input.Reaction)),
				Description: fmt.Sprintf("You reacted with %s. React with ✅ to confirm or ❌ to cancel.",
					reactionLabel(input.Reaction)),
				Color:  colorOpen,
				Footer: fmt.Sprintf("This prompt expires in %s", FormatRemaining(input.Timeout)),
			},
		},
	}, nil
}

// RenderNotice renders a private notice sent to one member
func (s *service) RenderNotice(ctx context.Context, input *RenderNoticeInput) (*RenderOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	label := reactionLabel(input.Reaction)
	var content string
	switch input.Kind {
	case NoticeConfirmed:
		content = fmt.Sprintf("You are confirmed with %s for the %s raid.", label, input.TemplateName)
		if input.Location != "" {
			content += fmt.Sprintf(" The location is **%s**.", input.Location)
		}
	case NoticeSlotFull:
		content = fmt.Sprintf("Sorry, %s for the %s raid is already full.", label, input.TemplateName)
	case NoticeWithdrawn:
		content = fmt.Sprintf("Your %s reaction for the %s raid was withdrawn.", label, input.TemplateName)
	case NoticePerk:
		content = fmt.Sprintf("Thanks for boosting! You have early access to the %s raid.", input.TemplateName)
		if input.Location != "" {
			content += fmt.Sprintf(" The location is **%s**.", input.Location)
		}
	default:
		return nil, fmt.Errorf("unknown notice kind %q", input.Kind)
	}

	return &RenderOutput{
		Message: &models.Message{Content: content},
	}, nil
}
