package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/raidcheck/internal/models"
	"github.com/bwmarrin/discordgo"
)

// connectPermissions is the permission set a room overwrite grants or denies
const connectPermissions = discordgo.PermissionVoiceConnect | discordgo.PermissionViewChannel

// DiscordConfig holds configuration for the Discord adapter
type DiscordConfig struct {
	// Session is an opened discordgo session with state tracking enabled
	Session *discordgo.Session

	Logger *slog.Logger
}

// Discord implements Client and Resolver on top of discordgo
type Discord struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// NewDiscord creates a new Discord adapter
func NewDiscord(cfg *DiscordConfig) (*Discord, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Discord{
		session: cfg.Session,
		logger:  logger,
	}, nil
}

// EmojiKey returns the reaction identity used across the bot
func EmojiKey(e discordgo.Emoji) string {
	if e.ID != "" {
		return e.Name + ":" + e.ID
	}
	return e.Name
}

// ToReactionEvent converts a gateway reaction into a ReactionEvent
func ToReactionEvent(r *discordgo.MessageReaction) *models.ReactionEvent {
	if r == nil {
		return nil
	}
	return &models.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     EmojiKey(r.Emoji),
	}
}

// ToMember converts a discordgo member
func ToMember(m *discordgo.Member) *models.Member {
	if m == nil || m.User == nil {
		return nil
	}

	name := m.User.Username
	if m.User.GlobalName != "" {
		name = m.User.GlobalName
	}
	if m.Nick != "" {
		name = m.Nick
	}

	return &models.Member{
		ID:       m.User.ID,
		Name:     name,
		Bot:      m.User.Bot,
		RoleIDs:  append([]string(nil), m.Roles...),
		Boosting: m.PremiumSince != nil,
	}
}

func toDiscordEmbed(e *models.Embed) *discordgo.MessageEmbed {
	if e == nil {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	return embed
}

func toDiscordEmbeds(msg *models.Message) []*discordgo.MessageEmbed {
	if msg.Embed == nil {
		return []*discordgo.MessageEmbed{}
	}
	return []*discordgo.MessageEmbed{toDiscordEmbed(msg.Embed)}
}

// GetMember looks up a guild member, preferring the state cache
func (d *Discord) GetMember(ctx context.Context, guildID, userID string) (*models.Member, error) {
	if d.session.State != nil {
		if m, err := d.session.State.Member(guildID, userID); err == nil {
			return ToMember(m), nil
		}
	}

	m, err := d.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == 404 {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return ToMember(m), nil
}

// SendMessage posts a message to a channel
func (d *Discord) SendMessage(ctx context.Context, channelID string, msg *models.Message) (string, error) {
	if msg == nil {
		return "", errors.New("message cannot be nil")
	}

	sent, err := d.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: msg.Content,
		Embeds:  toDiscordEmbeds(msg),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	return sent.ID, nil
}

// EditMessage replaces the content of a posted message
func (d *Discord) EditMessage(ctx context.Context, channelID, messageID string, msg *models.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}

	content := msg.Content
	embeds := toDiscordEmbeds(msg)
	_, err := d.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Content: &content,
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}

	return nil
}

// AddReaction reacts to a message as the bot
func (d *Discord) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := d.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add reaction %s: %w", emoji, err)
	}
	return nil
}

// SendPrompt sends a private yes/no prompt to a member
func (d *Discord) SendPrompt(ctx context.Context, userID string, msg *models.Message) (*Prompt, error) {
	channel, err := d.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to open private channel: %w", err)
	}

	messageID, err := d.SendMessage(ctx, channel.ID, msg)
	if err != nil {
		return nil, err
	}

	for _, emoji := range []string{PromptYesEmoji, PromptNoEmoji} {
		if err := d.AddReaction(ctx, channel.ID, messageID, emoji); err != nil {
			return nil, err
		}
	}

	return &Prompt{
		UserID:    userID,
		ChannelID: channel.ID,
		MessageID: messageID,
	}, nil
}

// AwaitPromptReply waits for the prompted member to react with yes or no
func (d *Discord) AwaitPromptReply(ctx context.Context, prompt *Prompt) (Reply, error) {
	if prompt == nil {
		return ReplyNone, errors.New("prompt cannot be nil")
	}

	replies := make(chan Reply, 1)
	remove := d.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID != prompt.MessageID || r.UserID != prompt.UserID {
			return
		}

		var reply Reply
		switch EmojiKey(r.Emoji) {
		case PromptYesEmoji:
			reply = ReplyYes
		case PromptNoEmoji:
			reply = ReplyNo
		default:
			return
		}

		select {
		case replies <- reply:
		default:
		}
	})
	defer remove()

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return ReplyNone, ctx.Err()
	}
}

// SendDirectMessage sends a private notice to a member
func (d *Discord) SendDirectMessage(ctx context.Context, userID string, msg *models.Message) error {
	channel, err := d.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open private channel: %w", err)
	}

	_, err = d.SendMessage(ctx, channel.ID, msg)
	return err
}

// SetRoomAccess writes a permission overwrite on the room
func (d *Discord) SetRoomAccess(ctx context.Context, input *SetRoomAccessInput) error {
	if input == nil || input.RoomID == "" || input.TargetID == "" {
		return errors.New("input, room ID and target ID cannot be empty")
	}

	targetType := discordgo.PermissionOverwriteTypeRole
	if input.TargetType == AccessTargetMember {
		targetType = discordgo.PermissionOverwriteTypeMember
	}

	var allow, deny int64
	if input.Allow {
		allow = connectPermissions
	} else {
		deny = discordgo.PermissionVoiceConnect
	}

	if err := d.session.ChannelPermissionSet(input.RoomID, input.TargetID, targetType, allow, deny, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to set room access: %w", err)
	}

	return nil
}

// ListRoomOccupants reads the voice states of the guild from the state cache
func (d *Discord) ListRoomOccupants(ctx context.Context, guildID, roomID string) ([]string, error) {
	if d.session.State == nil {
		return nil, errors.New("state tracking is disabled")
	}

	guild, err := d.session.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild state: %w", err)
	}

	d.session.State.RLock()
	defer d.session.State.RUnlock()

	var occupants []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == roomID {
			occupants = append(occupants, vs.UserID)
		}
	}

	return occupants, nil
}

// MoveMember moves a member to another room, or disconnects them when channelID is empty
func (d *Discord) MoveMember(ctx context.Context, guildID, userID, channelID string) error {
	var target *string
	if channelID != "" {
		target = &channelID
	}

	if err := d.session.GuildMemberMove(guildID, userID, target, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to move member: %w", err)
	}

	return nil
}

// ResolveTextChannel resolves a mention, ID or name to a text capable channel
func (d *Discord) ResolveTextChannel(ctx context.Context, guildID, arg string) (*models.Channel, error) {
	channels, err := d.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return matchChannel(channels, arg, models.ChannelKindText)
}

// ResolveVoiceChannel resolves a mention, ID or name to a voice capable channel
func (d *Discord) ResolveVoiceChannel(ctx context.Context, guildID, arg string) (*models.Channel, error) {
	channels, err := d.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return matchChannel(channels, arg, models.ChannelKindVoice)
}

// ResolveRole resolves a mention, ID or name to a role
func (d *Discord) ResolveRole(ctx context.Context, guildID, arg string) (*models.Role, error) {
	roles, err := d.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return matchRole(roles, guildID, arg)
}
