package raid

import "sort"

// ReactionTracker holds the confirmed members of one limited reaction.
// It does no locking; the owning session serializes access.
type ReactionTracker struct {
	key       ReactionKey
	limit     int
	confirmed map[string]struct{}
}

// newReactionTracker creates a tracker. A limit of 0 or less is unbounded.
func newReactionTracker(key ReactionKey, limit int) *ReactionTracker {
	if limit < 0 {
		limit = 0
	}
	return &ReactionTracker{
		key:       key,
		limit:     limit,
		confirmed: make(map[string]struct{}),
	}
}

// Key returns the reaction the tracker belongs to
func (t *ReactionTracker) Key() ReactionKey {
	return t.key
}

// Limit returns the capacity, 0 when unbounded
func (t *ReactionTracker) Limit() int {
	return t.limit
}

// Has reports whether the member is confirmed
func (t *ReactionTracker) Has(memberID string) bool {
	_, ok := t.confirmed[memberID]
	return ok
}

// AtCapacity reports whether no further member can be confirmed
func (t *ReactionTracker) AtCapacity() bool {
	return t.limit > 0 && len(t.confirmed) >= t.limit
}

// Count returns the number of confirmed members
func (t *ReactionTracker) Count() int {
	return len(t.confirmed)
}

// Add confirms a member. It returns false when the tracker is full or the
// member is already confirmed.
func (t *ReactionTracker) Add(memberID string) bool {
	if t.Has(memberID) || t.AtCapacity() {
		return false
	}
	t.confirmed[memberID] = struct{}{}
	return true
}

// Confirmed returns the confirmed member IDs, sorted
func (t *ReactionTracker) Confirmed() []string {
	ids := make([]string, 0, len(t.confirmed))
	for id := range t.confirmed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
