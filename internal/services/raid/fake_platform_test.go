package raid

import (
	"context"
	"fmt"
	"sync"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/KirkDiggler/raidcheck/internal/services/platform"
)

type sentMessage struct {
	ChannelID string
	MessageID string
	Message   *models.Message
}

type directMessage struct {
	UserID  string
	Message *models.Message
}

type memberMove struct {
	UserID    string
	ChannelID string
}

// fakePlatform is an in-memory platform.Client. Prompt replies are scripted
// per member; a member without a script never answers.
type fakePlatform struct {
	mu sync.Mutex

	members    map[string]*models.Member
	occupants  []string
	replies    map[string]chan platform.Reply
	failMove   map[string]bool
	failLookup map[string]bool
	failSend   bool

	// onSend runs after a message is recorded, outside the lock
	onSend func(channelID string)
	nextID int

	sent      []sentMessage
	edits     []sentMessage
	reactions []string
	prompts   []string
	dms       []directMessage
	access    []platform.SetRoomAccessInput
	moves     []memberMove

	edited chan struct{}
}

var _ platform.Client = (*fakePlatform)(nil)

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		members:    make(map[string]*models.Member),
		replies:    make(map[string]chan platform.Reply),
		failMove:   make(map[string]bool),
		failLookup: make(map[string]bool),
		edited:     make(chan struct{}, 256),
	}
}

func (f *fakePlatform) addMember(m *models.Member) *models.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[m.ID] = m
	return m
}

func (f *fakePlatform) setOccupants(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.occupants = ids
}

// replyWith queues answers the member gives to their next prompts
func (f *fakePlatform) replyWith(userID string, replies ...platform.Reply) {
	ch := f.replyChan(userID)
	for _, r := range replies {
		ch <- r
	}
}

// replyChan returns the member's answer channel, creating it when missing.
// A member with an empty channel blocks until an answer is pushed.
func (f *fakePlatform) replyChan(userID string) chan platform.Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.replies[userID]
	if !ok {
		ch = make(chan platform.Reply, 16)
		f.replies[userID] = ch
	}
	return ch
}

func (f *fakePlatform) GetMember(_ context.Context, _, userID string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLookup[userID] {
		return nil, fmt.Errorf("gateway timeout looking up %s", userID)
	}
	m, ok := f.members[userID]
	if !ok {
		return nil, platform.ErrMemberNotFound
	}
	return m, nil
}

func (f *fakePlatform) SendMessage(_ context.Context, channelID string, msg *models.Message) (string, error) {
	f.mu.Lock()
	if f.failSend {
		f.mu.Unlock()
		return "", fmt.Errorf("missing access to %s", channelID)
	}
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, MessageID: id, Message: msg})
	onSend := f.onSend
	f.mu.Unlock()

	if onSend != nil {
		onSend(channelID)
	}
	return id, nil
}

func (f *fakePlatform) EditMessage(_ context.Context, channelID, messageID string, msg *models.Message) error {
	f.mu.Lock()
	f.edits = append(f.edits, sentMessage{ChannelID: channelID, MessageID: messageID, Message: msg})
	f.mu.Unlock()
	select {
	case f.edited <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakePlatform) AddReaction(_ context.Context, _, _, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, emoji)
	return nil
}

func (f *fakePlatform) SendPrompt(_ context.Context, userID string, _ *models.Message) (*platform.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, userID)
	f.nextID++
	return &platform.Prompt{
		UserID:    userID,
		ChannelID: "dm-" + userID,
		MessageID: fmt.Sprintf("msg-%d", f.nextID),
	}, nil
}

func (f *fakePlatform) AwaitPromptReply(ctx context.Context, prompt *platform.Prompt) (platform.Reply, error) {
	f.mu.Lock()
	ch := f.replies[prompt.UserID]
	f.mu.Unlock()
	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		return platform.ReplyNone, ctx.Err()
	}
}

func (f *fakePlatform) SendDirectMessage(_ context.Context, userID string, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, directMessage{UserID: userID, Message: msg})
	return nil
}

func (f *fakePlatform) SetRoomAccess(_ context.Context, input *platform.SetRoomAccessInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = append(f.access, *input)
	return nil
}

func (f *fakePlatform) ListRoomOccupants(_ context.Context, _, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.occupants...), nil
}

func (f *fakePlatform) MoveMember(_ context.Context, _, userID, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMove[userID] {
		return fmt.Errorf("missing permissions to move %s", userID)
	}
	f.moves = append(f.moves, memberMove{UserID: userID, ChannelID: channelID})
	return nil
}

func (f *fakePlatform) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakePlatform) dmsTo(userID string) []*models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Message
	for _, dm := range f.dms {
		if dm.UserID == userID {
			out = append(out, dm.Message)
		}
	}
	return out
}

func (f *fakePlatform) movesSnapshot() []memberMove {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]memberMove(nil), f.moves...)
}

func (f *fakePlatform) accessSnapshot() []platform.SetRoomAccessInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.SetRoomAccessInput(nil), f.access...)
}

func (f *fakePlatform) lastEdit() *sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return nil
	}
	e := f.edits[len(f.edits)-1]
	return &e
}
