package raid

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/metrics"
	"github.com/jonboulle/clockwork"
)

// timerController runs the countdown of a session and the end sequence that
// follows it
type timerController struct {
	clock     clockwork.Clock
	interval  time.Duration
	admission *admissionManager
	display   *display
	metrics   *metrics.RaidMetrics
	logger    *slog.Logger

	// onPostWindow runs after the window ended normally
	onPostWindow func(ctx context.Context, session *RaidSession)
}

// run blocks until the window ends, by running out, by a leader's stop or
// cancel, or by ctx being cancelled, and then runs the end sequence once
func (t *timerController) run(ctx context.Context, session *RaidSession) {
	ticker := t.clock.NewTicker(t.interval)
	opened := t.clock.Now()

	reason := t.countdown(ctx, session, ticker)
	ticker.Stop()

	t.logger.Info("collection window ended", "session", session.ID, "reason", reason)
	if t.metrics != nil {
		t.metrics.WindowDuration.Observe(t.clock.Since(opened).Seconds())
	}

	t.end(context.WithoutCancel(ctx), session)
}

func (t *timerController) countdown(ctx context.Context, session *RaidSession, ticker clockwork.Ticker) string {
	for {
		select {
		case <-ctx.Done():
			return "shutdown"
		case <-session.stopped():
			return "stopped"
		case <-ticker.Chan():
			if session.tick(t.interval) == 0 {
				return "expired"
			}
			t.display.refreshAnnouncement(ctx, session)
		}
	}
}

// end revokes access, sweeps the room unless the raid was cancelled, and
// renders the final announcement
func (t *timerController) end(ctx context.Context, session *RaidSession) {
	session.beginClose()

	t.admission.close(ctx, session)

	cancelled := session.Status() == StatusCancelled
	if !cancelled {
		t.admission.sweep(ctx, session)
		if err := session.transition(StatusPostWindow); err != nil {
			t.logger.Error("ending session", "session", session.ID, "error", err)
		}
	}

	t.display.refreshAnnouncement(ctx, session)
	t.display.refreshConfirmations(ctx, session)

	if !cancelled && t.onPostWindow != nil {
		t.onPostWindow(ctx, session)
	}
}
