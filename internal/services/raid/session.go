package raid

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
)

// RaidSession is one run of a raid template. Identity fields are set by the
// builder and never change; everything else is guarded by mu.
type RaidSession struct {
	ID              string
	GuildID         string
	Template        *models.RaidTemplate
	Config          *models.RaidConfig
	Starter         *models.Member
	AnnounceChannel *models.Channel
	Room            *models.Channel

	// AdmissionRole is nil when the template admits only the starter
	AdmissionRole *models.Role

	// Location is shared with confirmed members, may be empty
	Location string

	// Window is the full length of the collection window
	Window time.Duration

	mu                     sync.Mutex
	status                 SessionStatus
	closing                bool
	remaining              time.Duration
	trackers               map[ReactionKey]*ReactionTracker
	limitedOrder           []ReactionKey
	definitions            map[ReactionKey]models.ReactionDefinition
	participants           map[string]struct{}
	leaders                map[string]struct{}
	names                  map[string]string
	evicted                map[string]struct{}
	announceMessageID      string
	confirmationsMessageID string
	stoppedBy              *models.Member

	stop     chan struct{}
	stopOnce sync.Once
}

type sessionParams struct {
	ID              string
	GuildID         string
	Template        *models.RaidTemplate
	Config          *models.RaidConfig
	Starter         *models.Member
	AnnounceChannel *models.Channel
	Room            *models.Channel
	AdmissionRole   *models.Role
	Location        string
}

func newRaidSession(p *sessionParams) *RaidSession {
	windowSeconds := p.Config.WindowSeconds
	if windowSeconds <= 0 {
		windowSeconds = models.DefaultWindowSeconds
	}
	window := time.Duration(windowSeconds) * time.Second

	s := &RaidSession{
		ID:              p.ID,
		GuildID:         p.GuildID,
		Template:        p.Template,
		Config:          p.Config,
		Starter:         p.Starter,
		AnnounceChannel: p.AnnounceChannel,
		Room:            p.Room,
		AdmissionRole:   p.AdmissionRole,
		Location:        p.Location,
		Window:          window,
		status:          StatusRunning,
		remaining:       window,
		trackers:        make(map[ReactionKey]*ReactionTracker, len(p.Template.Limited)),
		definitions:     make(map[ReactionKey]models.ReactionDefinition, len(p.Template.Limited)),
		participants:    make(map[string]struct{}),
		leaders:         make(map[string]struct{}),
		names:           make(map[string]string),
		evicted:         make(map[string]struct{}),
		stop:            make(chan struct{}),
	}
	for _, def := range p.Template.Limited {
		key := ReactionKey(def.Emoji)
		if _, exists := s.trackers[key]; exists {
			continue
		}
		s.trackers[key] = newReactionTracker(key, def.Limit)
		s.definitions[key] = def
		s.limitedOrder = append(s.limitedOrder, key)
	}
	if p.Starter != nil {
		s.names[p.Starter.ID] = p.Starter.Name
	}
	return s
}

// Status returns the lifecycle stage
func (s *RaidSession) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// transition moves the session forward. Terminal statuses never change.
func (s *RaidSession) transition(to SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(to)
}

func (s *RaidSession) transitionLocked(to SessionStatus) error {
	if s.status != StatusRunning || !to.IsTerminal() {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.status, to)
	}
	s.status = to
	return nil
}

// acceptingReactions reports whether reactions still affect the session
func (s *RaidSession) acceptingReactions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusRunning && !s.closing
}

// beginClose stops the session from accepting reactions and control signals
func (s *RaidSession) beginClose() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.closeStop()
}

// Remaining returns the time left in the window
func (s *RaidSession) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// tick subtracts d from the remaining time and returns the new value.
// The remaining time never goes below zero. Once it reaches zero the session
// is closing, so a stop or cancel arriving afterwards is refused.
func (s *RaidSession) tick(d time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining -= d
	if s.remaining <= 0 {
		s.remaining = 0
		s.closing = true
	}
	return s.remaining
}

// rememberName records a member's display name for rendering
func (s *RaidSession) rememberName(member *models.Member) {
	if member == nil || member.Name == "" {
		return
	}
	s.mu.Lock()
	s.names[member.ID] = member.Name
	s.mu.Unlock()
}

// addParticipant registers a member. Leaders are only ever added together
// with participation. It returns false when the member was already registered.
func (s *RaidSession) addParticipant(memberID string, leader bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.participants[memberID]
	s.participants[memberID] = struct{}{}
	if leader {
		s.leaders[memberID] = struct{}{}
	}
	return !existed
}

// IsParticipant reports whether the member reacted with the primary reaction
func (s *RaidSession) IsParticipant(memberID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.participants[memberID]
	return ok
}

// IsLeader reports whether the member participates as a leader
func (s *RaidSession) IsLeader(memberID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.leaders[memberID]
	return ok
}

// holdsLeadership reports whether the member leads this raid: the starter
// always does, anyone else through one of the guild's leader roles
func (s *RaidSession) holdsLeadership(member *models.Member) bool {
	if member == nil {
		return false
	}
	if s.Starter != nil && member.ID == s.Starter.ID {
		return true
	}
	return member.HasAnyRole(s.Config.LeaderRoleIDs)
}

// limitedDefinition returns the template definition behind a tracker
func (s *RaidSession) limitedDefinition(key ReactionKey) (models.ReactionDefinition, bool) {
	def, ok := s.definitions[key]
	return def, ok
}

// hasConfirmed reports whether the member is already confirmed for key
func (s *RaidSession) hasConfirmed(key ReactionKey, memberID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[key]
	return ok && t.Has(memberID)
}

// commitConfirmation adds the member to the tracker of key. The capacity
// check and the add happen under one lock, so concurrent commits can never
// push a tracker past its limit.
func (s *RaidSession) commitConfirmation(key ReactionKey, memberID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[key]
	if !ok {
		return false
	}
	return t.Add(memberID)
}

// requestStop records the member who ended the window and signals the timer.
// A cancel also moves the session to cancelled. Only the first request wins.
func (s *RaidSession) requestStop(member *models.Member, cancel bool) bool {
	s.mu.Lock()
	if s.status != StatusRunning || s.closing || s.stoppedBy != nil {
		s.mu.Unlock()
		return false
	}
	if cancel {
		if err := s.transitionLocked(StatusCancelled); err != nil {
			s.mu.Unlock()
			return false
		}
	}
	s.stoppedBy = member
	s.mu.Unlock()

	s.closeStop()
	return true
}

func (s *RaidSession) closeStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// stopped is closed when the window has to end before the countdown runs out
func (s *RaidSession) stopped() <-chan struct{} {
	return s.stop
}

// StoppedBy returns the leader who stopped or cancelled the raid
func (s *RaidSession) StoppedBy() *models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stoppedBy
}

func (s *RaidSession) recordEviction(memberID string) {
	s.mu.Lock()
	s.evicted[memberID] = struct{}{}
	s.mu.Unlock()
}

func (s *RaidSession) setAnnounceMessageID(id string) {
	s.mu.Lock()
	s.announceMessageID = id
	s.mu.Unlock()
}

// AnnounceMessageID returns the ID of the posted announcement
func (s *RaidSession) AnnounceMessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.announceMessageID
}

func (s *RaidSession) setConfirmationsMessageID(id string) {
	s.mu.Lock()
	s.confirmationsMessageID = id
	s.mu.Unlock()
}

func (s *RaidSession) confirmationsMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmationsMessageID
}

// phase maps the session state onto what the announcement shows
func (s *RaidSession) phase() messaging.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.status == StatusCancelled:
		return messaging.PhaseCancelled
	case s.status == StatusRunning && !s.closing:
		return messaging.PhaseOpen
	case s.stoppedBy != nil:
		return messaging.PhaseStopped
	default:
		return messaging.PhaseClosed
	}
}

// limitedSummaries returns the trackers in template order for rendering
func (s *RaidSession) limitedSummaries() []messaging.LimitedSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]messaging.LimitedSummary, 0, len(s.limitedOrder))
	for _, key := range s.limitedOrder {
		def := s.definitions[key]
		t := s.trackers[key]
		ids := t.Confirmed()
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			names = append(names, s.displayNameLocked(id))
		}
		summaries = append(summaries, messaging.LimitedSummary{
			Emoji:          def.Emoji,
			Name:           def.Name,
			Limit:          t.Limit(),
			ConfirmedNames: names,
		})
	}
	return summaries
}

func (s *RaidSession) displayNameLocked(memberID string) string {
	if name, ok := s.names[memberID]; ok {
		return name
	}
	return "<@" + memberID + ">"
}

// announcementInput collects what the announcement shows right now
func (s *RaidSession) announcementInput() *messaging.RenderAnnouncementInput {
	phase := s.phase()
	summaries := s.limitedSummaries()

	s.mu.Lock()
	defer s.mu.Unlock()
	input := &messaging.RenderAnnouncementInput{
		TemplateName:     s.Template.Name,
		Description:      s.Template.Description,
		RoomName:         s.Room.Name,
		Phase:            phase,
		Remaining:        s.remaining,
		ParticipantCount: len(s.participants),
		LeaderCount:      len(s.leaders),
		Primary:          s.Template.Primary,
		Limited:          summaries,
	}
	if s.Starter != nil {
		input.StarterName = s.Starter.Name
	}
	if s.Config.PerkEnabled {
		input.PerkEmoji = s.Config.PerkEmoji
	}
	if s.stoppedBy != nil {
		input.StoppedByName = s.displayNameLocked(s.stoppedBy.ID)
	}
	return input
}

// Snapshot returns a copy of the observable state
func (s *RaidSession) Snapshot() *SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &SessionSnapshot{
		ID:                     s.ID,
		GuildID:                s.GuildID,
		TemplateName:           s.Template.Name,
		AnnounceChannelID:      s.AnnounceChannel.ID,
		AnnounceMessageID:      s.announceMessageID,
		ConfirmationsMessageID: s.confirmationsMessageID,
		RoomID:                 s.Room.ID,
		Status:                 s.status,
		Remaining:              s.remaining,
		Participants:           sortedKeys(s.participants),
		Leaders:                sortedKeys(s.leaders),
		Confirmed:              make(map[ReactionKey][]string, len(s.trackers)),
		Evicted:                sortedKeys(s.evicted),
	}
	if s.Starter != nil {
		snap.StarterID = s.Starter.ID
	}
	if s.stoppedBy != nil {
		snap.StoppedBy = s.stoppedBy.ID
	}
	for key, t := range s.trackers {
		snap.Confirmed[key] = t.Confirmed()
	}
	return snap
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
