package raid

import "errors"

// RaidError is a custom error type for raid-related errors
type RaidError string

// Error implements the error interface
func (e RaidError) Error() string {
	return string(e)
}

// Precondition errors. No session exists when StartSession returns one of these.
const (
	ErrInvalidInput           RaidError = "invalid input"
	ErrTemplateNotFound       RaidError = "raid template not found"
	ErrAnnounceChannelInvalid RaidError = "announce channel is not a valid text channel"
	ErrRoomInvalid            RaidError = "room is not a valid voice channel"
	ErrRoleInvalid            RaidError = "admission role is not valid"
	ErrStarterNotFound        RaidError = "starter is not a member of the guild"
	ErrRoomBusy               RaidError = "a raid is already running in this room"
)

const (
	ErrAnnounceFailed    RaidError = "failed to post raid announcement"
	ErrShuttingDown      RaidError = "raid service is shutting down"
	ErrInvalidTransition RaidError = "invalid session status transition"
	ErrNilConfig         RaidError = "config cannot be nil"
	ErrNilTemplateRepo   RaidError = "template repository cannot be nil"
	ErrNilConfigRepo     RaidError = "config repository cannot be nil"
	ErrNilClient         RaidError = "platform client cannot be nil"
	ErrNilResolver       RaidError = "platform resolver cannot be nil"
	ErrNilMessaging      RaidError = "messaging service cannot be nil"
	ErrNilClock          RaidError = "clock cannot be nil"
	ErrNilUUIDGenerator  RaidError = "UUID generator cannot be nil"
)

// IsPrecondition reports whether err means a raid could not be started
// because of what the caller asked for, rather than an infrastructure failure
func IsPrecondition(err error) bool {
	var raidErr RaidError
	if !errors.As(err, &raidErr) {
		return false
	}
	switch raidErr {
	case ErrInvalidInput, ErrTemplateNotFound, ErrAnnounceChannelInvalid,
		ErrRoomInvalid, ErrRoleInvalid, ErrStarterNotFound, ErrRoomBusy:
		return true
	}
	return false
}
