package raid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
)

// display keeps the announcement and the confirmations display in sync with
// a session. Edits are best-effort.
type display struct {
	client    platform.Client
	messaging messaging.Service
	logger    *slog.Logger
}

func (d *display) announcement(ctx context.Context, session *RaidSession) (*models.Message, error) {
	out, err := d.messaging.RenderAnnouncement(ctx, session.announcementInput())
	if err != nil {
		return nil, fmt.Errorf("failed to render announcement: %w", err)
	}
	return out.Message, nil
}

func (d *display) confirmations(ctx context.Context, session *RaidSession) (*models.Message, error) {
	out, err := d.messaging.RenderConfirmations(ctx, &messaging.RenderConfirmationsInput{
		TemplateName: session.Template.Name,
		StarterName:  session.Starter.Name,
		Limited:      session.limitedSummaries(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render confirmations: %w", err)
	}
	return out.Message, nil
}

// postConfirmations creates the confirmations display when the guild has a
// channel configured for it
func (d *display) postConfirmations(ctx context.Context, session *RaidSession) {
	channelID := session.Config.ConfirmationsChannelID
	if channelID == "" {
		return
	}
	msg, err := d.confirmations(ctx, session)
	if err != nil {
		d.logger.Error("rendering confirmations", "session", session.ID, "error", err)
		return
	}
	id, err := d.client.SendMessage(ctx, channelID, msg)
	if err != nil {
		d.logger.Warn("posting confirmations display", "session", session.ID, "channel", channelID, "error", err)
		return
	}
	session.setConfirmationsMessageID(id)
}

// refreshAnnouncement re-renders the announcement in place
func (d *display) refreshAnnouncement(ctx context.Context, session *RaidSession) {
	messageID := session.AnnounceMessageID()
	if messageID == "" {
		return
	}
	msg, err := d.announcement(ctx, session)
	if err != nil {
		d.logger.Error("rendering announcement", "session", session.ID, "error", err)
		return
	}
	if err := d.client.EditMessage(ctx, session.AnnounceChannel.ID, messageID, msg); err != nil {
		d.logger.Warn("editing announcement", "session", session.ID, "error", err)
	}
}

// refreshConfirmations re-renders the confirmations display in place
func (d *display) refreshConfirmations(ctx context.Context, session *RaidSession) {
	messageID := session.confirmationsMessage()
	if messageID == "" {
		return
	}
	msg, err := d.confirmations(ctx, session)
	if err != nil {
		d.logger.Error("rendering confirmations", "session", session.ID, "error", err)
		return
	}
	if err := d.client.EditMessage(ctx, session.Config.ConfirmationsChannelID, messageID, msg); err != nil {
		d.logger.Warn("editing confirmations display", "session", session.ID, "error", err)
	}
}

// notify sends a member a private notice
func (d *display) notify(ctx context.Context, session *RaidSession, memberID string, input *messaging.RenderNoticeInput) {
	out, err := d.messaging.RenderNotice(ctx, input)
	if err != nil {
		d.logger.Error("rendering notice", "session", session.ID, "kind", input.Kind, "error", err)
		return
	}
	if err := d.client.SendDirectMessage(ctx, memberID, out.Message); err != nil {
		d.logger.Warn("sending notice", "session", session.ID, "member", memberID, "kind", input.Kind, "error", err)
	}
}
