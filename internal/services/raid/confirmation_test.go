package raid

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
	"github.com/stretchr/testify/suite"
)

type ConfirmationFlowTestSuite struct {
	suite.Suite
	ctx     context.Context
	c       *components
	session *RaidSession
	member  *models.Member
}

func (s *ConfirmationFlowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.c = newComponents(30 * time.Second)
	s.session = testSession(testTemplate(), testConfig())
	s.member = s.c.platform.addMember(&models.Member{ID: "keyper", Name: "Keyper"})
	s.session.rememberName(s.member)
}

func TestConfirmationFlowTestSuite(t *testing.T) {
	suite.Run(t, new(ConfirmationFlowTestSuite))
}

func (s *ConfirmationFlowTestSuite) runAsync(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.c.confirm.run(ctx, s.session, s.member, testKeyEmoji)
	}()
	return done
}

func (s *ConfirmationFlowTestSuite) waitDone(done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.FailNow("confirmation flow did not finish")
	}
}

// No answer before the prompt expires counts as a yes.
func (s *ConfirmationFlowTestSuite) TestTimeoutConfirms() {
	done := s.runAsync(s.ctx)

	s.Require().NoError(s.c.clock.BlockUntilContext(s.ctx, 1))
	s.c.clock.Advance(30 * time.Second)
	s.waitDone(done)

	s.True(s.session.hasConfirmed(testKeyEmoji, s.member.ID))
	dms := s.c.platform.dmsTo(s.member.ID)
	s.Require().Len(dms, 1)
	s.Contains(dms[0].Content, "You are confirmed")
}

func (s *ConfirmationFlowTestSuite) TestNothingCommittedBeforeTimeout() {
	done := s.runAsync(s.ctx)

	s.Require().NoError(s.c.clock.BlockUntilContext(s.ctx, 1))
	s.c.clock.Advance(29 * time.Second)

	select {
	case <-done:
		s.FailNow("flow finished before its timeout")
	case <-time.After(50 * time.Millisecond):
	}
	s.False(s.session.hasConfirmed(testKeyEmoji, s.member.ID))

	s.c.clock.Advance(time.Second)
	s.waitDone(done)
	s.True(s.session.hasConfirmed(testKeyEmoji, s.member.ID))
}

func (s *ConfirmationFlowTestSuite) TestWithdrawnLeavesTrackerUnchanged() {
	s.c.platform.replyWith(s.member.ID, platform.ReplyNo)

	s.waitDone(s.runAsync(s.ctx))

	s.False(s.session.hasConfirmed(testKeyEmoji, s.member.ID))
	dms := s.c.platform.dmsTo(s.member.ID)
	s.Require().Len(dms, 1)
	s.Contains(dms[0].Content, "withdrawn")
}

func (s *ConfirmationFlowTestSuite) TestCommitsAfterWindowEnded() {
	answers := s.c.platform.replyChan(s.member.ID)
	done := s.runAsync(s.ctx)

	s.session.beginClose()
	s.Require().NoError(s.session.transition(StatusPostWindow))
	answers <- platform.ReplyYes
	s.waitDone(done)

	s.True(s.session.hasConfirmed(testKeyEmoji, s.member.ID))
}

func (s *ConfirmationFlowTestSuite) TestAbandonedOnShutdown() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := s.runAsync(ctx)

	s.Require().NoError(s.c.clock.BlockUntilContext(s.ctx, 1))
	cancel()
	s.waitDone(done)

	s.False(s.session.hasConfirmed(testKeyEmoji, s.member.ID))
	s.Empty(s.c.platform.dmsTo(s.member.ID))
}

func (s *ConfirmationFlowTestSuite) TestConfirmationsDisplayRefreshed() {
	s.session.Config.ConfirmationsChannelID = "chan-confirmations"
	s.session.setConfirmationsMessageID("confirmations-msg")
	s.c.platform.replyWith(s.member.ID, platform.ReplyYes)

	s.waitDone(s.runAsync(s.ctx))

	edit := s.c.platform.lastEdit()
	s.Require().NotNil(edit)
	s.Equal("chan-confirmations", edit.ChannelID)
	s.Equal("confirmations-msg", edit.MessageID)
	s.Require().NotNil(edit.Message.Embed)
	s.Equal("Keyper", edit.Message.Embed.Fields[0].Value)
}

func (s *ConfirmationFlowTestSuite) TestUnknownReactionDoesNothing() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.c.confirm.run(s.ctx, s.session, s.member, "🧀")
	}()
	s.waitDone(done)

	s.Zero(s.c.platform.promptCount())
}
