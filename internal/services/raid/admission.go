package raid

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KirkDiggler/raidcheck/internal/metrics"
	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
)

// eviction actions, used as metric labels
const (
	evictionMoved        = "moved"
	evictionDisconnected = "disconnected"
	evictionFailed       = "failed"
)

// admissionManager controls who may connect to a raid room and clears out
// the members who did not sign up
type admissionManager struct {
	client  platform.Client
	metrics *metrics.RaidMetrics
	logger  *slog.Logger
}

// accessInput picks the admission target: the role, or the starter alone
func accessInput(session *RaidSession, allow bool) *platform.SetRoomAccessInput {
	if session.Template.AdmissionScope == models.AdmissionScopeStarter || session.AdmissionRole == nil {
		return &platform.SetRoomAccessInput{
			RoomID:     session.Room.ID,
			TargetID:   session.Starter.ID,
			TargetType: platform.AccessTargetMember,
			Allow:      allow,
		}
	}
	return &platform.SetRoomAccessInput{
		RoomID:     session.Room.ID,
		TargetID:   session.AdmissionRole.ID,
		TargetType: platform.AccessTargetRole,
		Allow:      allow,
	}
}

// open grants connect access to the room
func (a *admissionManager) open(ctx context.Context, session *RaidSession) {
	input := accessInput(session, true)
	if err := a.client.SetRoomAccess(ctx, input); err != nil {
		a.logger.Warn("opening room access", "session", session.ID, "room", session.Room.ID, "target", input.TargetID, "error", err)
	}
}

// close revokes the access granted by open
func (a *admissionManager) close(ctx context.Context, session *RaidSession) {
	input := accessInput(session, false)
	if err := a.client.SetRoomAccess(ctx, input); err != nil {
		a.logger.Warn("closing room access", "session", session.ID, "room", session.Room.ID, "target", input.TargetID, "error", err)
	}
}

// sweep removes every room occupant who is neither a participant nor a
// leader. Leaders who never reacted are recognised by their roles. Each
// removal is attempted independently; failures are logged.
func (a *admissionManager) sweep(ctx context.Context, session *RaidSession) {
	occupants, err := a.client.ListRoomOccupants(ctx, session.GuildID, session.Room.ID)
	if err != nil {
		a.logger.Warn("listing room occupants", "session", session.ID, "room", session.Room.ID, "error", err)
		return
	}

	fallback := session.Config.FallbackChannelID
	action := evictionDisconnected
	if fallback != "" {
		action = evictionMoved
	}

	for _, memberID := range occupants {
		if session.IsParticipant(memberID) || session.IsLeader(memberID) {
			continue
		}
		leader, err := a.isLeader(ctx, session, memberID)
		if err != nil {
			a.logger.Warn("checking room occupant", "session", session.ID, "member", memberID, "error", err)
			a.record(evictionFailed)
			continue
		}
		if leader {
			continue
		}
		if err := a.client.MoveMember(ctx, session.GuildID, memberID, fallback); err != nil {
			a.logger.Warn("evicting room occupant", "session", session.ID, "member", memberID, "error", err)
			a.record(evictionFailed)
			continue
		}
		session.recordEviction(memberID)
		a.record(action)
	}
}

// isLeader looks up an occupant who did not react. Someone who is no longer a
// guild member holds no roles and is not a leader.
func (a *admissionManager) isLeader(ctx context.Context, session *RaidSession, memberID string) (bool, error) {
	if session.Starter != nil && memberID == session.Starter.ID {
		return true, nil
	}
	if len(session.Config.LeaderRoleIDs) == 0 {
		return false, nil
	}
	member, err := a.client.GetMember(ctx, session.GuildID, memberID)
	if err != nil {
		if errors.Is(err, platform.ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return session.holdsLeadership(member), nil
}

func (a *admissionManager) record(action string) {
	if a.metrics == nil {
		return
	}
	a.metrics.Evictions.WithLabelValues(action).Inc()
}
