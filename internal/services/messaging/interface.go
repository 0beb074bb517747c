package messaging

import "context"

// Service renders raid state into chat messages. Callers supply data, the
// service owns wording and layout.
type Service interface {
	// RenderAnnouncement renders the public raid announcement
	RenderAnnouncement(ctx context.Context, input *RenderAnnouncementInput) (*RenderOutput, error)

	// RenderConfirmations renders the list of confirmed limited reactions
	RenderConfirmations(ctx context.Context, input *RenderConfirmationsInput) (*RenderOutput, error)

	// RenderPrompt renders the private yes/no confirmation prompt
	RenderPrompt(ctx context.Context, input *RenderPromptInput) (*RenderOutput, error)

	// RenderNotice renders a private notice sent to one member
	RenderNotice(ctx context.Context, input *RenderNoticeInput) (*RenderOutput, error)
}
