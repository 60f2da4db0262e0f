package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

// conversationUseCase implements the ConversationUseCase interface.
type conversationUseCase struct {
	conversationRepo ConversationRepository
	logger           *slog.Logger
}

// NewConversationUseCase creates a new ConversationUseCase.
func NewConversationUseCase(conversationRepo ConversationRepository, logger *slog.Logger) ConversationUseCase {
	return &conversationUseCase{
		conversationRepo: conversationRepo,
		logger:           logger,
	}
}

// List returns conversation summaries ordered by last activity. The second
// return value signals that a full page came back and more may exist.
func (c *conversationUseCase) List(ctx context.Context, limit, offset int, starred *bool) ([]chatDomain.Summary, bool, error) {
	summaries, err := c.conversationRepo.List(ctx, limit, offset, starred)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(summaries) == limit
	return summaries, hasMore, nil
}

// Get retrieves a conversation with all of its turns.
func (c *conversationUseCase) Get(ctx context.Context, conversationID uuid.UUID) (*chatDomain.Conversation, error) {
	return c.conversationRepo.Get(ctx, conversationID)
}

// SetStarred stars or unstars a conversation.
func (c *conversationUseCase) SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error {
	return c.conversationRepo.SetStarred(ctx, conversationID, starred)
}

// Rename changes a conversation title.
func (c *conversationUseCase) Rename(ctx context.Context, conversationID uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "title cannot be blank")
	}
	return c.conversationRepo.Rename(ctx, conversationID, title)
}

// Delete removes a conversation and its turns.
func (c *conversationUseCase) Delete(ctx context.Context, conversationID uuid.UUID) error {
	return c.conversationRepo.Delete(ctx, conversationID)
}

// DeleteNonStarred removes every conversation that is not starred.
func (c *conversationUseCase) DeleteNonStarred(ctx context.Context) (int64, error) {
	deleted, err := c.conversationRepo.DeleteNonStarred(ctx)
	if err != nil {
		return 0, err
	}

	c.logger.Info("bulk deleted non-starred conversations", "deleted_count", deleted)
	return deleted, nil
}
