package raid

import (
	"context"
	"errors"
	"testing"
	"time"

	uuidMocks "github.com/KirkDiggler/raidcheck/internal/common/uuid/mocks"
	"github.com/KirkDiggler/raidcheck/internal/metrics"
	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/repositories/raidconfig"
	configMocks "github.com/KirkDiggler/raidcheck/internal/repositories/raidconfig/mocks"
	"github.com/KirkDiggler/raidcheck/internal/repositories/template"
	templateMocks "github.com/KirkDiggler/raidcheck/internal/repositories/template/mocks"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
	platformMocks "github.com/KirkDiggler/raidcheck/internal/services/platform/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RaidServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockTemplateRepo *templateMocks.MockRepository
	mockConfigRepo   *configMocks.MockRepository
	mockResolver     *platformMocks.MockResolver
	mockUUID         *uuidMocks.MockUUID
	platform         *fakePlatform
	clock            *clockwork.FakeClock
	metrics          *metrics.RaidMetrics
	raidService      *service
	ctx              context.Context

	// Test data
	testTemplate *models.RaidTemplate
	testConfig   *models.RaidConfig
	announce     *models.Channel
	room         *models.Channel
	role         *models.Role
	starter      *models.Member
	leader       *models.Member
	raiderOne    *models.Member
	raiderTwo    *models.Member

	startInput *StartSessionInput
}

func (s *RaidServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockTemplateRepo = templateMocks.NewMockRepository(s.mockCtrl)
	s.mockConfigRepo = configMocks.NewMockRepository(s.mockCtrl)
	s.mockResolver = platformMocks.NewMockResolver(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.platform = newFakePlatform()
	s.clock = clockwork.NewFakeClock()
	s.metrics = metrics.NewRaidMetrics(prometheus.NewRegistry())
	s.ctx = context.Background()

	svc, err := New(&Config{
		TemplateRepo:  s.mockTemplateRepo,
		ConfigRepo:    s.mockConfigRepo,
		Client:        s.platform,
		Resolver:      s.mockResolver,
		Messaging:     messaging.NewService(),
		Clock:         s.clock,
		UUIDGenerator: s.mockUUID,
		Metrics:       s.metrics,
		Logger:        discardLogger(),
	})
	s.Require().NoError(err)
	s.raidService = svc

	s.testTemplate = &models.RaidTemplate{
		GuildID:        testGuildID,
		Name:           "Void",
		Primary:        models.ReactionDefinition{Emoji: testJoinEmoji, Name: "Join"},
		AdmissionScope: models.AdmissionScopeRole,
	}
	s.testConfig = testConfig()
	s.announce = &models.Channel{ID: testAnnounceID, GuildID: testGuildID, Name: "raids", Kind: models.ChannelKindText}
	s.room = &models.Channel{ID: testRoomID, GuildID: testGuildID, Name: "Raiding 1", Kind: models.ChannelKindVoice}
	s.role = &models.Role{ID: testRoleID, GuildID: testGuildID, Name: "Raiders"}

	s.starter = s.platform.addMember(testStarter())
	s.leader = s.platform.addMember(&models.Member{ID: "leader", Name: "Leader", RoleIDs: []string{testLeaderRole}})
	s.raiderOne = s.platform.addMember(&models.Member{ID: "raider-1", Name: "Raider One"})
	s.raiderTwo = s.platform.addMember(&models.Member{ID: "raider-2", Name: "Raider Two"})

	s.startInput = &StartSessionInput{
		GuildID:         testGuildID,
		StarterID:       s.starter.ID,
		TemplateName:    "Void",
		AnnounceChannel: "#raids",
		Room:            "Raiding 1",
		AdmissionRole:   "@Raiders",
		Location:        "Sector 7",
	}
}

func (s *RaidServiceTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.NoError(s.raidService.Shutdown(ctx))
	s.mockCtrl.Finish()
}

func TestRaidServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RaidServiceTestSuite))
}

func (s *RaidServiceTestSuite) expectBuild() {
	s.mockTemplateRepo.EXPECT().
		GetTemplate(gomock.Any(), &template.GetTemplateInput{GuildID: testGuildID, Name: "Void"}).
		Return(s.testTemplate, nil)
	s.mockConfigRepo.EXPECT().
		GetConfig(gomock.Any(), &raidconfig.GetConfigInput{GuildID: testGuildID}).
		Return(s.testConfig, nil)
	s.mockResolver.EXPECT().ResolveTextChannel(gomock.Any(), testGuildID, "#raids").Return(s.announce, nil)
	s.mockResolver.EXPECT().ResolveVoiceChannel(gomock.Any(), testGuildID, "Raiding 1").Return(s.room, nil)
	s.mockResolver.EXPECT().ResolveRole(gomock.Any(), testGuildID, "@Raiders").Return(s.role, nil)
	s.mockUUID.EXPECT().NewUUID().Return("session-1")
}

type startResult struct {
	out *StartSessionOutput
	err error
}

// startAsync starts a session and returns once its window is open
func (s *RaidServiceTestSuite) startAsync() (*SessionSnapshot, <-chan startResult) {
	started := make(chan *SessionSnapshot, 1)
	done := make(chan startResult, 1)
	input := *s.startInput
	input.Started = func(snap *SessionSnapshot) { started <- snap }

	go func() {
		out, err := s.raidService.StartSession(s.ctx, &input)
		done <- startResult{out: out, err: err}
	}()

	select {
	case snap := <-started:
		s.Require().NoError(s.clock.BlockUntilContext(s.ctx, 1))
		return snap, done
	case res := <-done:
		s.FailNowf("session ended before opening", "error: %v", res.err)
	case <-time.After(5 * time.Second):
		s.FailNow("session did not open")
	}
	return nil, nil
}

// runToEnd advances the countdown until the session returns
func (s *RaidServiceTestSuite) runToEnd(done <-chan startResult) *StartSessionOutput {
	for i := 0; i < 100; i++ {
		s.clock.Advance(DefaultTickInterval)
		select {
		case res := <-done:
			s.Require().NoError(res.err)
			return res.out
		case <-s.platform.edited:
		case <-time.After(5 * time.Second):
			s.FailNow("countdown stalled")
		}
	}
	s.FailNow("session never ended")
	return nil
}

func (s *RaidServiceTestSuite) awaitEnd(done <-chan startResult) *StartSessionOutput {
	select {
	case res := <-done:
		s.Require().NoError(res.err)
		return res.out
	case <-time.After(5 * time.Second):
		s.FailNow("session did not end")
	}
	return nil
}

func (s *RaidServiceTestSuite) react(messageID string, member *models.Member, emoji string) {
	s.raidService.HandleReactionAdd(s.ctx, &models.ReactionEvent{
		GuildID:   testGuildID,
		ChannelID: testAnnounceID,
		MessageID: messageID,
		UserID:    member.ID,
		Emoji:     emoji,
	})
}

func (s *RaidServiceTestSuite) TestNew_Validation() {
	valid := func() *Config {
		return &Config{
			TemplateRepo:  s.mockTemplateRepo,
			ConfigRepo:    s.mockConfigRepo,
			Client:        s.platform,
			Resolver:      s.mockResolver,
			Messaging:     messaging.NewService(),
			Clock:         s.clock,
			UUIDGenerator: s.mockUUID,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(cfg *Config) *Config
		wantErr error
	}{
		{"nil config", func(*Config) *Config { return nil }, ErrNilConfig},
		{"nil template repo", func(c *Config) *Config { c.TemplateRepo = nil; return c }, ErrNilTemplateRepo},
		{"nil config repo", func(c *Config) *Config { c.ConfigRepo = nil; return c }, ErrNilConfigRepo},
		{"nil client", func(c *Config) *Config { c.Client = nil; return c }, ErrNilClient},
		{"nil resolver", func(c *Config) *Config { c.Resolver = nil; return c }, ErrNilResolver},
		{"nil messaging", func(c *Config) *Config { c.Messaging = nil; return c }, ErrNilMessaging},
		{"nil clock", func(c *Config) *Config { c.Clock = nil; return c }, ErrNilClock},
		{"nil uuid", func(c *Config) *Config { c.UUIDGenerator = nil; return c }, ErrNilUUIDGenerator},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			svc, err := New(tc.mutate(valid()))
			s.ErrorIs(err, tc.wantErr)
			s.Nil(svc)
		})
	}

	svc, err := New(valid())
	s.Require().NoError(err)
	s.Equal(DefaultTickInterval, svc.timer.interval)
	s.Equal(DefaultConfirmationTimeout, svc.confirm.timeout)
}

// Scenario A: three members join, one of them a leader, and the window runs out.
func (s *RaidServiceTestSuite) TestStartSession_WindowRunsOut() {
	s.expectBuild()
	snap, done := s.startAsync()
	s.Equal(1, s.raidService.ActiveSessions())

	s.react(snap.AnnounceMessageID, s.leader, testJoinEmoji)
	s.react(snap.AnnounceMessageID, s.raiderOne, testJoinEmoji)
	s.react(snap.AnnounceMessageID, s.raiderTwo, testJoinEmoji)

	out := s.runToEnd(done)

	s.Len(out.Snapshot.Participants, 3)
	s.Len(out.Snapshot.Leaders, 1)
	s.Equal(StatusPostWindow, out.Snapshot.Status)
	s.Equal(time.Duration(0), out.Snapshot.Remaining)
	s.Zero(s.raidService.ActiveSessions())

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.SessionsStarted))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.SessionsEnded.WithLabelValues(outcomeClosed)))
	s.Equal(float64(0), testutil.ToFloat64(s.metrics.ActiveSessions))
}

// Scenario B: the first member to confirm takes the only slot.
func (s *RaidServiceTestSuite) TestStartSession_LimitedSlotFull() {
	s.testTemplate.Limited = []models.ReactionDefinition{{Emoji: testKeyEmoji, Name: "Key", Limit: 1}}
	s.expectBuild()
	snap, done := s.startAsync()
	d, ok := s.raidService.dispatcherFor(snap.AnnounceMessageID)
	s.Require().True(ok)

	s.platform.replyWith(s.raiderOne.ID, platform.ReplyYes)
	s.platform.replyWith(s.raiderTwo.ID, platform.ReplyYes)
	s.react(snap.AnnounceMessageID, s.raiderOne, testKeyEmoji)
	d.wait()
	s.react(snap.AnnounceMessageID, s.raiderTwo, testKeyEmoji)
	d.wait()

	out := s.runToEnd(done)

	s.Equal([]string{s.raiderOne.ID}, out.Snapshot.Confirmed[testKeyEmoji])
	dms := s.platform.dmsTo(s.raiderTwo.ID)
	s.Require().Len(dms, 1)
	s.Contains(dms[0].Content, "already full")
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Confirmations.WithLabelValues(resultConfirmed)))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Confirmations.WithLabelValues(resultSlotFull)))
}

// Scenario C: a leader cancels mid-window and nobody is swept.
func (s *RaidServiceTestSuite) TestStartSession_LeaderCancels() {
	s.platform.setOccupants("lurker")
	s.expectBuild()
	snap, done := s.startAsync()

	s.react(snap.AnnounceMessageID, s.raiderOne, models.CancelEmoji)
	s.react(snap.AnnounceMessageID, s.leader, models.CancelEmoji)
	out := s.awaitEnd(done)

	s.Equal(StatusCancelled, out.Snapshot.Status)
	s.Equal(s.leader.ID, out.Snapshot.StoppedBy)
	s.Empty(out.Snapshot.Evicted)
	s.Empty(s.platform.movesSnapshot())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.SessionsEnded.WithLabelValues(outcomeCancelled)))
}

// Scenario D: a member who never joined is disconnected at window end.
func (s *RaidServiceTestSuite) TestStartSession_SweepsNonParticipants() {
	s.platform.setOccupants(s.raiderOne.ID, "lurker")
	s.expectBuild()
	snap, done := s.startAsync()

	s.react(snap.AnnounceMessageID, s.raiderOne, testJoinEmoji)
	out := s.runToEnd(done)

	s.Equal([]string{"lurker"}, out.Snapshot.Evicted)
	s.Equal([]memberMove{{UserID: "lurker"}}, s.platform.movesSnapshot())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Evictions.WithLabelValues(evictionDisconnected)))
}

func (s *RaidServiceTestSuite) TestStartSession_SweepSparesLeaders() {
	s.platform.setOccupants(s.starter.ID, s.leader.ID, s.raiderOne.ID)
	s.expectBuild()
	_, done := s.startAsync()

	out := s.runToEnd(done)

	s.Equal([]string{s.raiderOne.ID}, out.Snapshot.Evicted)
	s.Equal([]memberMove{{UserID: s.raiderOne.ID}}, s.platform.movesSnapshot())
	s.Empty(out.Snapshot.Leaders)
}

func (s *RaidServiceTestSuite) TestStartSession_LeaderStop() {
	s.expectBuild()
	snap, done := s.startAsync()

	s.react(snap.AnnounceMessageID, s.leader, models.StopEmoji)
	out := s.awaitEnd(done)

	s.Equal(StatusPostWindow, out.Snapshot.Status)
	s.Equal(s.leader.ID, out.Snapshot.StoppedBy)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.SessionsEnded.WithLabelValues(outcomeStopped)))
}

func (s *RaidServiceTestSuite) TestStartSession_PostsAndSeeds() {
	s.testTemplate.Limited = []models.ReactionDefinition{{Emoji: testKeyEmoji, Name: "Key", Limit: 1}}
	s.testTemplate.Additional = []models.ReactionDefinition{{Emoji: "🎉", Name: "Hype"}}
	s.testConfig.PerkEnabled = true
	s.testConfig.ConfirmationsChannelID = "chan-confirmations"
	s.expectBuild()
	snap, done := s.startAsync()

	s.NotEmpty(snap.ConfirmationsMessageID)
	s.platform.mu.Lock()
	s.Equal([]string{testJoinEmoji, testKeyEmoji, "🎉", testPerkEmoji, models.StopEmoji, models.CancelEmoji}, s.platform.reactions)
	s.Require().Len(s.platform.sent, 2)
	s.Equal(testAnnounceID, s.platform.sent[0].ChannelID)
	s.Equal("chan-confirmations", s.platform.sent[1].ChannelID)
	s.platform.mu.Unlock()

	access := s.platform.accessSnapshot()
	s.Require().Len(access, 1)
	s.Equal(platform.SetRoomAccessInput{RoomID: testRoomID, TargetID: testRoleID, TargetType: platform.AccessTargetRole, Allow: true}, access[0])

	s.react(snap.AnnounceMessageID, s.leader, models.StopEmoji)
	s.awaitEnd(done)
}

func (s *RaidServiceTestSuite) TestStartSession_RoomBusy() {
	s.expectBuild()
	snap, done := s.startAsync()

	s.expectBuild()
	input := *s.startInput
	out, err := s.raidService.StartSession(s.ctx, &input)
	s.ErrorIs(err, ErrRoomBusy)
	s.True(IsPrecondition(err))
	s.Nil(out)

	s.react(snap.AnnounceMessageID, s.leader, models.CancelEmoji)
	s.awaitEnd(done)
}

func (s *RaidServiceTestSuite) TestStartSession_AnnounceFails() {
	s.platform.failSend = true
	s.expectBuild()

	out, err := s.raidService.StartSession(s.ctx, s.startInput)

	s.ErrorIs(err, ErrAnnounceFailed)
	s.False(IsPrecondition(err))
	s.Nil(out)
	access := s.platform.accessSnapshot()
	s.Require().Len(access, 2)
	s.False(access[1].Allow)
	s.Zero(s.raidService.ActiveSessions())
}

func (s *RaidServiceTestSuite) TestStartSession_Preconditions() {
	s.Run("missing template name", func() {
		input := *s.startInput
		input.TemplateName = " "
		_, err := s.raidService.StartSession(s.ctx, &input)
		s.ErrorIs(err, ErrInvalidInput)
	})

	s.Run("template not found", func() {
		s.mockTemplateRepo.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Return(nil, template.ErrTemplateNotFound)
		_, err := s.raidService.StartSession(s.ctx, s.startInput)
		s.ErrorIs(err, ErrTemplateNotFound)
		s.True(IsPrecondition(err))
	})

	s.Run("template store down", func() {
		s.mockTemplateRepo.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
		_, err := s.raidService.StartSession(s.ctx, s.startInput)
		s.Error(err)
		s.False(IsPrecondition(err))
	})

	s.Run("announce channel invalid", func() {
		s.mockTemplateRepo.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Return(s.testTemplate, nil)
		s.mockConfigRepo.EXPECT().GetConfig(gomock.Any(), gomock.Any()).Return(s.testConfig, nil)
		s.mockResolver.EXPECT().ResolveTextChannel(gomock.Any(), testGuildID, "#raids").Return(nil, platform.ErrWrongChannelKind)
		_, err := s.raidService.StartSession(s.ctx, s.startInput)
		s.ErrorIs(err, ErrAnnounceChannelInvalid)
	})

	s.Run("room invalid", func() {
		s.mockTemplateRepo.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Return(s.testTemplate, nil)
		s.mockConfigRepo.EXPECT().GetConfig(gomock.Any(), gomock.Any()).Return(s.testConfig, nil)
		s.mockResolver.EXPECT().ResolveTextChannel(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.announce, nil)
		s.mockResolver.EXPECT().ResolveVoiceChannel(gomock.Any(), testGuildID, "Raiding 1").Return(nil, platform.ErrChannelNotFound)
		_, err := s.raidService.StartSession(s.ctx, s.startInput)
		s.ErrorIs(err, ErrRoomInvalid)
	})

	s.Run("role missing", func() {
		input := *s.startInput
		input.AdmissionRole = ""
		s.mockTemplateRepo.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Return(s.testTemplate, nil)
		s.mockConfigRepo.EXPECT().GetConfig(gomock.Any(), gomock.Any()).Return(s.testConfig, nil)
		s.mockResolver.EXPECT().ResolveTextChannel(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.announce, nil)
		s.mockResolver.EXPECT().ResolveVoiceChannel(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.room, nil)
		_, err := s.raidService.StartSession(s.ctx, &input)
		s.ErrorIs(err, ErrRoleInvalid)
	})

	s.Run("starter unknown", func() {
		input := *s.startInput
		input.StarterID = "ghost"
		s.mockTemplateRepo.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Return(s.testTemplate, nil)
		s.mockConfigRepo.EXPECT().GetConfig(gomock.Any(), gomock.Any()).Return(s.testConfig, nil)
		s.mockResolver.EXPECT().ResolveTextChannel(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.announce, nil)
		s.mockResolver.EXPECT().ResolveVoiceChannel(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.room, nil)
		s.mockResolver.EXPECT().ResolveRole(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.role, nil)
		_, err := s.raidService.StartSession(s.ctx, &input)
		s.ErrorIs(err, ErrStarterNotFound)
	})

	s.Empty(s.platform.accessSnapshot())
	s.Zero(s.raidService.ActiveSessions())
}

func (s *RaidServiceTestSuite) TestStartSession_StarterScopeNeedsNoRole() {
	s.testTemplate.AdmissionScope = models.AdmissionScopeStarter
	s.startInput.AdmissionRole = ""
	s.mockTemplateRepo.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Return(s.testTemplate, nil)
	s.mockConfigRepo.EXPECT().GetConfig(gomock.Any(), gomock.Any()).Return(s.testConfig, nil)
	s.mockResolver.EXPECT().ResolveTextChannel(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.announce, nil)
	s.mockResolver.EXPECT().ResolveVoiceChannel(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.room, nil)
	s.mockUUID.EXPECT().NewUUID().Return("session-1")

	snap, done := s.startAsync()
	access := s.platform.accessSnapshot()
	s.Require().Len(access, 1)
	s.Equal(s.starter.ID, access[0].TargetID)
	s.Equal(platform.AccessTargetMember, access[0].TargetType)

	s.react(snap.AnnounceMessageID, s.starter, models.CancelEmoji)
	s.awaitEnd(done)
}

func (s *RaidServiceTestSuite) TestHandleReactionAdd_UnknownMessage() {
	s.raidService.HandleReactionAdd(s.ctx, &models.ReactionEvent{MessageID: "nope", UserID: s.raiderOne.ID, Emoji: testJoinEmoji})
	s.raidService.HandleReactionAdd(s.ctx, nil)

	s.Zero(s.raidService.ActiveSessions())
}

func (s *RaidServiceTestSuite) TestStartSession_RoutesReactionsBeforeFollowUpPosts() {
	s.testConfig.ConfirmationsChannelID = "chan-confirmations"
	routed := make(chan bool, 1)
	s.platform.onSend = func(channelID string) {
		if channelID != "chan-confirmations" {
			return
		}
		_, ok := s.raidService.dispatcherFor("msg-1")
		routed <- ok
	}
	s.expectBuild()
	snap, done := s.startAsync()

	s.Equal("msg-1", snap.AnnounceMessageID)
	s.True(<-routed)

	s.react(snap.AnnounceMessageID, s.leader, models.CancelEmoji)
	s.awaitEnd(done)
}

func (s *RaidServiceTestSuite) TestShutdown_EndsWindowAndAbandonsPrompts() {
	s.testTemplate.Limited = []models.ReactionDefinition{{Emoji: testKeyEmoji, Name: "Key", Limit: 1}}
	s.platform.setOccupants("lurker")
	s.expectBuild()
	snap, done := s.startAsync()

	s.react(snap.AnnounceMessageID, s.raiderOne, testKeyEmoji)
	s.Require().Eventually(func() bool { return s.platform.promptCount() == 1 }, 5*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	s.Require().NoError(s.raidService.Shutdown(ctx))

	out := s.awaitEnd(done)
	s.Equal(StatusPostWindow, out.Snapshot.Status)
	s.Equal([]string{"lurker"}, out.Snapshot.Evicted)
	s.Zero(s.raidService.ActiveSessions())

	s.clock.Advance(DefaultConfirmationTimeout)
	s.Empty(s.platform.dmsTo(s.raiderOne.ID))
	s.Empty(out.Snapshot.Confirmed[testKeyEmoji])
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Confirmations.WithLabelValues(resultFailed)))
	s.Zero(testutil.ToFloat64(s.metrics.Confirmations.WithLabelValues(resultTimeoutConfirmed)))

	access := s.platform.accessSnapshot()
	s.Require().Len(access, 2)
	s.False(access[1].Allow)

	_, err := s.raidService.StartSession(s.ctx, s.startInput)
	s.ErrorIs(err, ErrShuttingDown)
}
