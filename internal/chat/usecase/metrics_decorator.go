package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	"github.com/allisson/chatapi/internal/metrics"
)

// streamUseCaseWithMetrics decorates StreamUseCase with metrics
// instrumentation. Stream outcomes are only known when the event channel
// closes, so events are relayed through an intercepting channel.
type streamUseCaseWithMetrics struct {
	next    StreamUseCase
	metrics metrics.BusinessMetrics
}

// NewStreamUseCaseWithMetrics wraps a StreamUseCase with metrics recording.
func NewStreamUseCaseWithMetrics(useCase StreamUseCase, m metrics.BusinessMetrics) StreamUseCase {
	return &streamUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Stream records stream start, per-chunk counts and the final outcome with
// the total generation duration.
func (s *streamUseCaseWithMetrics) Stream(ctx context.Context, input StreamInput) (<-chan chatDomain.StreamEvent, error) {
	start := time.Now()

	events, err := s.next.Stream(ctx, input)
	if err != nil {
		s.metrics.RecordOperation(ctx, "chat", "stream", "error")
		return nil, err
	}
	s.metrics.RecordOperation(ctx, "chat", "stream_started", "success")

	relay := make(chan chatDomain.StreamEvent)
	go func() {
		defer close(relay)

		status := "error"
		for event := range events {
			switch event.Type {
			case chatDomain.EncryptedChunkEvent:
				s.metrics.RecordOperation(ctx, "chat", "stream_chunk", "success")
			case chatDomain.EncryptedDoneEvent:
				status = "success"
			}
			relay <- event
		}

		s.metrics.RecordOperation(ctx, "chat", "stream", status)
		s.metrics.RecordDuration(ctx, "chat", "stream", time.Since(start), status)
	}()
	return relay, nil
}

// conversationUseCaseWithMetrics decorates ConversationUseCase with metrics
// instrumentation.
type conversationUseCaseWithMetrics struct {
	next    ConversationUseCase
	metrics metrics.BusinessMetrics
}

// NewConversationUseCaseWithMetrics wraps a ConversationUseCase with metrics recording.
func NewConversationUseCaseWithMetrics(useCase ConversationUseCase, m metrics.BusinessMetrics) ConversationUseCase {
	return &conversationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *conversationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "chat", operation, status)
	c.metrics.RecordDuration(ctx, "chat", operation, time.Since(start), status)
}

// List records metrics for conversation listing.
func (c *conversationUseCaseWithMetrics) List(ctx context.Context, limit, offset int, starred *bool) ([]chatDomain.Summary, bool, error) {
	start := time.Now()
	summaries, hasMore, err := c.next.List(ctx, limit, offset, starred)
	c.record(ctx, "conversation_list", start, err)
	return summaries, hasMore, err
}

// Get records metrics for conversation retrieval.
func (c *conversationUseCaseWithMetrics) Get(ctx context.Context, conversationID uuid.UUID) (*chatDomain.Conversation, error) {
	start := time.Now()
	conversation, err := c.next.Get(ctx, conversationID)
	c.record(ctx, "conversation_get", start, err)
	return conversation, err
}

// SetStarred records metrics for star updates.
func (c *conversationUseCaseWithMetrics) SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error {
	start := time.Now()
	err := c.next.SetStarred(ctx, conversationID, starred)
	c.record(ctx, "conversation_star", start, err)
	return err
}

// Rename records metrics for renames.
func (c *conversationUseCaseWithMetrics) Rename(ctx context.Context, conversationID uuid.UUID, title string) error {
	start := time.Now()
	err := c.next.Rename(ctx, conversationID, title)
	c.record(ctx, "conversation_rename", start, err)
	return err
}

// Delete records metrics for deletions.
func (c *conversationUseCaseWithMetrics) Delete(ctx context.Context, conversationID uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, conversationID)
	c.record(ctx, "conversation_delete", start, err)
	return err
}

// DeleteNonStarred records metrics for bulk deletions.
func (c *conversationUseCaseWithMetrics) DeleteNonStarred(ctx context.Context) (int64, error) {
	start := time.Now()
	deleted, err := c.next.DeleteNonStarred(ctx)
	c.record(ctx, "conversation_bulk_delete", start, err)
	return deleted, err
}
