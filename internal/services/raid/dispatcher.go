package raid

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
)

// reactionClass is what a reaction means to a session
type reactionClass int

const (
	classIgnore reactionClass = iota
	classStop
	classCancel
	classPrimary
	classLimited
	classPerk
)

// classify maps an emoji onto its meaning for the session. Leader controls
// win over everything the template defines.
func classify(session *RaidSession, emoji string) reactionClass {
	switch {
	case emoji == models.StopEmoji:
		return classStop
	case emoji == models.CancelEmoji:
		return classCancel
	case emoji == session.Template.Primary.Emoji:
		return classPrimary
	}
	if _, ok := session.limitedDefinition(ReactionKey(emoji)); ok {
		return classLimited
	}
	if session.Config.PerkEnabled && emoji != "" && emoji == session.Config.PerkEmoji {
		return classPerk
	}
	return classIgnore
}

type queueKey struct {
	memberID string
	reaction ReactionKey
}

// reactorQueue holds the pending limited reactions of one member for one
// reaction. A single goroutine drains it while running is set.
type reactorQueue struct {
	pending []*models.Member
	running bool
}

// dispatcher routes the reactions of one session. Primary, control and perk
// reactions are handled inline. Limited reactions are queued per member and
// reaction so a member's repeated reacts run in arrival order while nothing
// else waits on them.
type dispatcher struct {
	session *RaidSession
	client  platform.Client
	display *display
	confirm *confirmationFlow
	logger  *slog.Logger

	// flowCtx outlives the window so confirmations are not cut short by it,
	// only by the service shutting down
	flowCtx context.Context

	mu     sync.Mutex
	closed bool
	queues map[queueKey]*reactorQueue
	flows  sync.WaitGroup
}

func newDispatcher(flowCtx context.Context, session *RaidSession, client platform.Client, d *display, confirm *confirmationFlow, logger *slog.Logger) *dispatcher {
	return &dispatcher{
		session: session,
		client:  client,
		display: d,
		confirm: confirm,
		logger:  logger.With("session", session.ID),
		flowCtx: flowCtx,
		queues:  make(map[queueKey]*reactorQueue),
	}
}

// Dispatch handles one reaction event
func (d *dispatcher) Dispatch(ctx context.Context, event *models.ReactionEvent) {
	if event == nil || !d.session.acceptingReactions() {
		return
	}

	class := classify(d.session, event.Emoji)
	if class == classIgnore {
		return
	}

	member, err := d.client.GetMember(ctx, d.session.GuildID, event.UserID)
	if err != nil {
		d.logger.Warn("looking up reacting member", "member", event.UserID, "error", err)
		return
	}
	if member.Bot {
		return
	}
	d.session.rememberName(member)

	switch class {
	case classStop, classCancel:
		d.handleControl(member, class == classCancel)
	case classPrimary:
		if d.session.addParticipant(member.ID, d.isLeader(member)) {
			d.logger.Debug("participant registered", "member", member.ID)
		}
	case classLimited:
		d.enqueue(member, ReactionKey(event.Emoji))
	case classPerk:
		d.handlePerk(ctx, member)
	}
}

func (d *dispatcher) isLeader(member *models.Member) bool {
	return d.session.holdsLeadership(member)
}

func (d *dispatcher) handleControl(member *models.Member, cancel bool) {
	if !d.isLeader(member) {
		d.logger.Debug("ignoring control reaction from non-leader", "member", member.ID)
		return
	}
	if d.session.requestStop(member, cancel) {
		d.logger.Info("raid stopped by leader", "member", member.ID, "cancel", cancel)
	}
}

func (d *dispatcher) handlePerk(ctx context.Context, member *models.Member) {
	if !member.Boosting {
		return
	}
	d.display.notify(ctx, d.session, member.ID, &messaging.RenderNoticeInput{
		Kind:         messaging.NoticePerk,
		TemplateName: d.session.Template.Name,
		Reaction: models.ReactionDefinition{
			Emoji: d.session.Config.PerkEmoji,
			Name:  "Booster",
		},
		Location: d.session.Location,
	})
}

func (d *dispatcher) enqueue(member *models.Member, key ReactionKey) {
	qk := queueKey{memberID: member.ID, reaction: key}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	q, ok := d.queues[qk]
	if !ok {
		q = &reactorQueue{}
		d.queues[qk] = q
	}
	q.pending = append(q.pending, member)
	if q.running {
		return
	}
	q.running = true
	d.flows.Add(1)
	go d.drain(qk, q)
}

func (d *dispatcher) drain(qk queueKey, q *reactorQueue) {
	defer d.flows.Done()
	for {
		d.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			delete(d.queues, qk)
			d.mu.Unlock()
			return
		}
		member := q.pending[0]
		q.pending = q.pending[1:]
		d.mu.Unlock()

		if d.session.hasConfirmed(qk.reaction, member.ID) {
			continue
		}
		d.confirm.run(d.flowCtx, d.session, member, qk.reaction)
	}
}

// wait blocks until every queued confirmation has finished
func (d *dispatcher) wait() {
	d.flows.Wait()
}

// close refuses new confirmations and waits for the queued ones
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.flows.Wait()
}
