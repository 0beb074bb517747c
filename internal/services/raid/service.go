package raid

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/raidcheck/internal/common/uuid"
	"github.com/KirkDiggler/raidcheck/internal/metrics"
	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/repositories/raidconfig"
	"github.com/KirkDiggler/raidcheck/internal/repositories/template"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
)

// session outcomes, used as metric labels
const (
	outcomeClosed    = "closed"
	outcomeStopped   = "stopped"
	outcomeCancelled = "cancelled"
)

// service implements the Service interface
type service struct {
	templateRepo  template.Repository
	configRepo    raidconfig.Repository
	client        platform.Client
	resolver      platform.Resolver
	uuidGenerator uuid.UUID
	metrics       *metrics.RaidMetrics
	logger        *slog.Logger

	display   *display
	confirm   *confirmationFlow
	admission *admissionManager
	timer     *timerController

	// lifetime ends on Shutdown. Open windows and confirmation flows run
	// inside it; running counts sessions until their last flow is done.
	lifetime context.Context
	shutdown context.CancelFunc
	running  sync.WaitGroup

	mu          sync.RWMutex
	closed      bool
	dispatchers map[string]*dispatcher // keyed by announce message ID
	rooms       map[string]string      // room ID to session ID
}

// New creates a new raid service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.TemplateRepo == nil {
		return nil, ErrNilTemplateRepo
	}
	if cfg.ConfigRepo == nil {
		return nil, ErrNilConfigRepo
	}
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Resolver == nil {
		return nil, ErrNilResolver
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "raid")

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	confirmationTimeout := cfg.ConfirmationTimeout
	if confirmationTimeout <= 0 {
		confirmationTimeout = DefaultConfirmationTimeout
	}

	d := &display{
		client:    cfg.Client,
		messaging: cfg.Messaging,
		logger:    logger,
	}
	admission := &admissionManager{
		client:  cfg.Client,
		metrics: cfg.Metrics,
		logger:  logger,
	}

	lifetime, shutdown := context.WithCancel(context.Background())

	s := &service{
		lifetime:      lifetime,
		shutdown:      shutdown,
		templateRepo:  cfg.TemplateRepo,
		configRepo:    cfg.ConfigRepo,
		client:        cfg.Client,
		resolver:      cfg.Resolver,
		uuidGenerator: cfg.UUIDGenerator,
		metrics:       cfg.Metrics,
		logger:        logger,
		display:       d,
		admission:     admission,
		confirm: &confirmationFlow{
			client:    cfg.Client,
			messaging: cfg.Messaging,
			display:   d,
			clock:     cfg.Clock,
			timeout:   confirmationTimeout,
			metrics:   cfg.Metrics,
			logger:    logger,
		},
		dispatchers: make(map[string]*dispatcher),
		rooms:       make(map[string]string),
	}
	s.timer = &timerController{
		clock:        cfg.Clock,
		interval:     tickInterval,
		admission:    admission,
		display:      d,
		metrics:      cfg.Metrics,
		logger:       logger,
		onPostWindow: s.onPostWindow,
	}

	return s, nil
}

// StartSession builds a session, opens its window and blocks until it ends.
// Confirmations still pending at that point finish in the background and are
// waited for by Shutdown.
func (s *service) StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	if !s.track() {
		return nil, ErrShuttingDown
	}

	out, d, err := s.runSession(ctx, input)
	if d == nil {
		s.running.Done()
		return out, err
	}
	go func() {
		defer s.running.Done()
		d.close()
	}()
	return out, err
}

// runSession returns the session's dispatcher once one was created, so its
// remaining flows can be waited for
func (s *service) runSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, *dispatcher, error) {
	// the window also ends when the service shuts down
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopOnShutdown := context.AfterFunc(s.lifetime, cancel)
	defer stopOnShutdown()

	session, err := s.buildSession(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	if !s.claimRoom(session) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRoomBusy, session.Room.Name)
	}
	defer s.releaseRoom(session)

	logger := s.logger.With("session", session.ID, "guild", session.GuildID, "template", session.Template.Name)

	s.admission.open(ctx, session)

	msg, err := s.display.announcement(ctx, session)
	if err != nil {
		s.admission.close(context.WithoutCancel(ctx), session)
		return nil, nil, err
	}
	messageID, err := s.client.SendMessage(ctx, session.AnnounceChannel.ID, msg)
	if err != nil {
		s.admission.close(context.WithoutCancel(ctx), session)
		return nil, nil, fmt.Errorf("%w: %w", ErrAnnounceFailed, err)
	}
	session.setAnnounceMessageID(messageID)

	// routed before any further I/O so early reactions are not lost
	d := newDispatcher(s.lifetime, session, s.client, s.display, s.confirm, s.logger)
	s.register(messageID, d)
	defer s.unregister(messageID)

	s.display.postConfirmations(ctx, session)
	s.seedReactions(ctx, session)

	logger.Info("raid session started", "window", session.Window, "room", session.Room.ID)
	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
		s.metrics.ActiveSessions.Inc()
	}
	if input.Started != nil {
		input.Started(session.Snapshot())
	}

	s.timer.run(ctx, session)

	snapshot := session.Snapshot()
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
		s.metrics.SessionsEnded.WithLabelValues(outcome(session)).Inc()
	}
	logger.Info("raid session ended",
		"status", snapshot.Status,
		"participants", len(snapshot.Participants),
		"evicted", len(snapshot.Evicted),
	)

	return &StartSessionOutput{Snapshot: snapshot}, d, nil
}

// HandleReactionAdd routes a reaction to the session owning the message
func (s *service) HandleReactionAdd(ctx context.Context, event *models.ReactionEvent) {
	if event == nil {
		return
	}
	d, ok := s.dispatcherFor(event.MessageID)
	if !ok {
		return
	}
	d.Dispatch(ctx, event)
}

// ActiveSessions returns the number of sessions with an open window
func (s *service) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dispatchers)
}

// Shutdown ends every session and waits for their end sequences and
// confirmation flows
func (s *service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.shutdown()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for raid sessions: %w", ctx.Err())
	}
}

// track counts a new session unless the service is shutting down
func (s *service) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.running.Add(1)
	return true
}

// seedReactions puts the template's reactions on the announcement so members
// can click them: primary, limited, cosmetic, perk, then the leader controls
func (s *service) seedReactions(ctx context.Context, session *RaidSession) {
	emojis := []string{session.Template.Primary.Emoji}
	for _, def := range session.Template.Limited {
		emojis = append(emojis, def.Emoji)
	}
	for _, def := range session.Template.Additional {
		emojis = append(emojis, def.Emoji)
	}
	if session.Config.PerkEnabled && session.Config.PerkEmoji != "" {
		emojis = append(emojis, session.Config.PerkEmoji)
	}
	emojis = append(emojis, models.StopEmoji, models.CancelEmoji)

	messageID := session.AnnounceMessageID()
	for _, emoji := range emojis {
		if err := s.client.AddReaction(ctx, session.AnnounceChannel.ID, messageID, emoji); err != nil {
			s.logger.Warn("seeding reaction", "session", session.ID, "emoji", emoji, "error", err)
		}
	}
}

// onPostWindow is where follow-up work after a completed window would go.
// Nothing happens there yet.
func (s *service) onPostWindow(ctx context.Context, session *RaidSession) {
	s.logger.Debug("post window", "session", session.ID)
}

func (s *service) claimRoom(session *RaidSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.rooms[session.Room.ID]; busy {
		return false
	}
	s.rooms[session.Room.ID] = session.ID
	return true
}

func (s *service) releaseRoom(session *RaidSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rooms[session.Room.ID] == session.ID {
		delete(s.rooms, session.Room.ID)
	}
}

func (s *service) register(messageID string, d *dispatcher) {
	s.mu.Lock()
	s.dispatchers[messageID] = d
	s.mu.Unlock()
}

func (s *service) unregister(messageID string) {
	s.mu.Lock()
	delete(s.dispatchers, messageID)
	s.mu.Unlock()
}

// dispatcherFor returns the dispatcher of a registered announcement
func (s *service) dispatcherFor(messageID string) (*dispatcher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dispatchers[messageID]
	return d, ok
}

func outcome(session *RaidSession) string {
	switch session.phase() {
	case messaging.PhaseCancelled:
		return outcomeCancelled
	case messaging.PhaseStopped:
		return outcomeStopped
	default:
		return outcomeClosed
	}
}
