package raid

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/metrics"
	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
	"github.com/jonboulle/clockwork"
)

// confirmation results, used as metric labels
const (
	resultConfirmed        = "confirmed"
	resultTimeoutConfirmed = "timeout_confirmed"
	resultSlotFull         = "slot_full"
	resultWithdrawn        = "withdrawn"
	resultFailed           = "failed"
)

// confirmationFlow asks a member privately whether they really want a
// limited reaction and commits the answer to the session
type confirmationFlow struct {
	client    platform.Client
	messaging messaging.Service
	display   *display
	clock     clockwork.Clock
	timeout   time.Duration
	metrics   *metrics.RaidMetrics
	logger    *slog.Logger
}

// run drives one confirmation to completion. It is not tied to the session's
// window: a flow started before the window ends still commits afterwards.
func (f *confirmationFlow) run(ctx context.Context, session *RaidSession, member *models.Member, key ReactionKey) {
	logger := f.logger.With("session", session.ID, "member", member.ID, "reaction", string(key))

	def, ok := session.limitedDefinition(key)
	if !ok {
		return
	}

	rendered, err := f.messaging.RenderPrompt(ctx, &messaging.RenderPromptInput{
		TemplateName: session.Template.Name,
		Reaction:     def,
		Timeout:      f.timeout,
	})
	if err != nil {
		logger.Error("rendering confirmation prompt", "error", err)
		f.record(resultFailed)
		return
	}

	prompt, err := f.client.SendPrompt(ctx, member.ID, rendered.Message)
	if err != nil {
		logger.Warn("sending confirmation prompt", "error", err)
		f.record(resultFailed)
		return
	}

	waitCtx, cancel := clockwork.WithTimeout(ctx, f.clock, f.timeout)
	defer cancel()

	reply, err := f.client.AwaitPromptReply(waitCtx, prompt)

	result := resultConfirmed
	switch {
	case reply == platform.ReplyYes:
	case reply == platform.ReplyNo:
		logger.Debug("member withdrew limited reaction")
		f.record(resultWithdrawn)
		f.display.notify(ctx, session, member.ID, &messaging.RenderNoticeInput{
			Kind:         messaging.NoticeWithdrawn,
			TemplateName: session.Template.Name,
			Reaction:     def,
		})
		return
	case ctx.Err() != nil:
		// shutting down, not a timeout
		logger.Debug("confirmation abandoned", "error", ctx.Err())
		f.record(resultFailed)
		return
	case waitCtx.Err() != nil:
		// No answer in time counts as a yes.
		result = resultTimeoutConfirmed
	default:
		logger.Warn("awaiting confirmation reply", "error", err)
		f.record(resultFailed)
		return
	}

	if !session.commitConfirmation(key, member.ID) {
		logger.Debug("limited reaction full", "limit", def.Limit)
		f.record(resultSlotFull)
		f.display.notify(ctx, session, member.ID, &messaging.RenderNoticeInput{
			Kind:         messaging.NoticeSlotFull,
			TemplateName: session.Template.Name,
			Reaction:     def,
		})
		return
	}

	logger.Info("limited reaction confirmed", "result", result)
	f.record(result)
	f.display.notify(ctx, session, member.ID, &messaging.RenderNoticeInput{
		Kind:         messaging.NoticeConfirmed,
		TemplateName: session.Template.Name,
		Reaction:     def,
		Location:     session.Location,
	})
	f.display.refreshConfirmations(ctx, session)
}

func (f *confirmationFlow) record(result string) {
	if f.metrics == nil {
		return
	}
	f.metrics.Confirmations.WithLabelValues(result).Inc()
}
