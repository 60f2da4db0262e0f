// Package usecase defines the interfaces and implementations for the chat
// pipeline and conversation management. Use cases orchestrate generation,
// envelope encryption and persistence so a turn pair is only ever stored
// atomically.
package usecase

import (
	"context"

	"github.com/google/uuid"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	cryptoService "github.com/allisson/chatapi/internal/crypto/service"
)

// ConversationRepository defines the interface for conversation persistence
// operations.
type ConversationRepository interface {
	// Create inserts a conversation together with its initial messages.
	Create(ctx context.Context, conversation *chatDomain.Conversation) error
	// AppendMessages adds messages to an existing conversation and advances
	// its last_updated timestamp.
	AppendMessages(ctx context.Context, conversationID uuid.UUID, messages []chatDomain.Message) error
	Get(ctx context.Context, conversationID uuid.UUID) (*chatDomain.Conversation, error)
	// List returns conversation summaries ordered by last_updated descending.
	List(ctx context.Context, limit, offset int, starred *bool) ([]chatDomain.Summary, error)
	SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error
	Rename(ctx context.Context, conversationID uuid.UUID, title string) error
	Delete(ctx context.Context, conversationID uuid.UUID) error
	// DeleteNonStarred removes every conversation that is not starred and
	// returns the number deleted.
	DeleteNonStarred(ctx context.Context) (int64, error)
}

// Generator defines the interface for the generation client used by the
// chat pipeline.
type Generator interface {
	GenerateStream(ctx context.Context, model string, history []chatDomain.Message, message string, emit func(chunk string) error) (string, error)
	GenerateGrounded(ctx context.Context, model string, history []chatDomain.Message, message string, enableSearch bool) (chatDomain.GenerationResult, error)
	GenerateTitle(ctx context.Context, firstMessage string) string
	ListModels(ctx context.Context) []chatDomain.Model
}

// StreamInput carries the parameters of a single chat stream.
type StreamInput struct {
	// ConversationID is nil when the stream starts a new conversation.
	ConversationID *uuid.UUID
	Message        string
	EnableSearch   bool
	Model          string
	// Envelope encrypts the chunk and done events of this stream. It comes
	// from the envelope middleware and uses the request's key configuration.
	Envelope cryptoService.Envelope
}

// StreamUseCase defines the interface for the streaming chat pipeline.
type StreamUseCase interface {
	// Stream validates the input, then produces the stream events on the
	// returned channel from a separate goroutine. The channel is closed
	// after the terminal event. Cancelling ctx stops the producer.
	Stream(ctx context.Context, input StreamInput) (<-chan chatDomain.StreamEvent, error)
}

// ConversationUseCase defines the interface for conversation management.
type ConversationUseCase interface {
	// List returns summaries plus a flag indicating whether more pages may
	// exist.
	List(ctx context.Context, limit, offset int, starred *bool) ([]chatDomain.Summary, bool, error)
	Get(ctx context.Context, conversationID uuid.UUID) (*chatDomain.Conversation, error)
	SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error
	Rename(ctx context.Context, conversationID uuid.UUID, title string) error
	Delete(ctx context.Context, conversationID uuid.UUID) error
	DeleteNonStarred(ctx context.Context) (int64, error)
}
