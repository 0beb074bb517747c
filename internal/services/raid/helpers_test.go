package raid

import (
	"io"
	"log/slog"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/messaging"
	"github.com/jonboulle/clockwork"
)

const (
	testGuildID    = "guild-1"
	testAnnounceID = "chan-announce"
	testRoomID     = "chan-room"
	testRoleID     = "role-raiders"
	testLeaderRole = "role-leader"
	testKeyEmoji   = "🔑"
	testMapEmoji   = "🗺️"
	testJoinEmoji  = "⚔️"
	testPerkEmoji  = "🚀"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTemplate() *models.RaidTemplate {
	return &models.RaidTemplate{
		GuildID:     testGuildID,
		Name:        "Void",
		Description: "Weekly void run",
		Primary:     models.ReactionDefinition{Emoji: testJoinEmoji, Name: "Join"},
		Limited: []models.ReactionDefinition{
			{Emoji: testKeyEmoji, Name: "Key", Limit: 1},
			{Emoji: testMapEmoji, Name: "Map"},
		},
		Additional: []models.ReactionDefinition{
			{Emoji: "🎉", Name: "Hype"},
		},
		AdmissionScope: models.AdmissionScopeRole,
	}
}

func testConfig() *models.RaidConfig {
	cfg := models.DefaultRaidConfig(testGuildID)
	cfg.WindowSeconds = 10
	cfg.LeaderRoleIDs = []string{testLeaderRole}
	return cfg
}

func testStarter() *models.Member {
	return &models.Member{ID: "starter", Name: "Starter", RoleIDs: []string{testLeaderRole}}
}

func testSession(tmpl *models.RaidTemplate, cfg *models.RaidConfig) *RaidSession {
	return newRaidSession(&sessionParams{
		ID:              "session-1",
		GuildID:         testGuildID,
		Template:        tmpl,
		Config:          cfg,
		Starter:         testStarter(),
		AnnounceChannel: &models.Channel{ID: testAnnounceID, GuildID: testGuildID, Name: "raids", Kind: models.ChannelKindText},
		Room:            &models.Channel{ID: testRoomID, GuildID: testGuildID, Name: "Raiding 1", Kind: models.ChannelKindVoice},
		AdmissionRole:   &models.Role{ID: testRoleID, GuildID: testGuildID, Name: "Raiders"},
		Location:        "Sector 7",
	})
}

// components wires the per-session parts against a fake platform
type components struct {
	platform  *fakePlatform
	clock     *clockwork.FakeClock
	display   *display
	confirm   *confirmationFlow
	admission *admissionManager
	timer     *timerController
}

func newComponents(timeout time.Duration) *components {
	fake := newFakePlatform()
	clock := clockwork.NewFakeClock()
	logger := discardLogger()
	d := &display{client: fake, messaging: messaging.NewService(), logger: logger}
	admission := &admissionManager{client: fake, logger: logger}
	return &components{
		platform:  fake,
		clock:     clock,
		display:   d,
		admission: admission,
		confirm: &confirmationFlow{
			client:    fake,
			messaging: messaging.NewService(),
			display:   d,
			clock:     clock,
			timeout:   timeout,
			logger:    logger,
		},
		timer: &timerController{
			clock:     clock,
			interval:  DefaultTickInterval,
			admission: admission,
			display:   d,
			logger:    logger,
		},
	}
}
