package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	"github.com/allisson/chatapi/internal/database"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

// streamErrorMessage is the only error text that ever reaches the client on
// an open stream. Internal failure details stay in the logs.
const streamErrorMessage = "An error occurred while generating the response. Please try again."

// eventBufferSize bounds the producer/consumer channel so a slow client
// applies backpressure to the producer instead of growing memory.
const eventBufferSize = 32

// errStreamCancelled marks a stream aborted because the consumer went away.
var errStreamCancelled = errors.New("stream cancelled")

// streamUseCase implements the StreamUseCase interface for the chat pipeline.
type streamUseCase struct {
	txManager        database.TxManager
	conversationRepo ConversationRepository
	generator        Generator
	historyLimit     int
	logger           *slog.Logger
}

// NewStreamUseCase creates a new StreamUseCase.
func NewStreamUseCase(
	txManager database.TxManager,
	conversationRepo ConversationRepository,
	generator Generator,
	historyLimit int,
	logger *slog.Logger,
) StreamUseCase {
	return &streamUseCase{
		txManager:        txManager,
		conversationRepo: conversationRepo,
		generator:        generator,
		historyLimit:     historyLimit,
		logger:           logger,
	}
}

// Stream validates the input synchronously and starts the producer. An
// unknown conversation id fails here with ErrNotFound so the handler can
// still answer with a plain HTTP error. Once the channel is returned, every
// failure surfaces as a terminal error event instead.
func (s *streamUseCase) Stream(ctx context.Context, input StreamInput) (<-chan chatDomain.StreamEvent, error) {
	if input.Envelope == nil {
		return nil, apperrors.New("stream started without envelope service")
	}

	var history []chatDomain.Message
	if input.ConversationID != nil {
		conversation, err := s.conversationRepo.Get(ctx, *input.ConversationID)
		if err != nil {
			return nil, err
		}
		history = conversation.Messages
	}
	if len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	events := make(chan chatDomain.StreamEvent, eventBufferSize)
	go s.produce(ctx, input, history, events)
	return events, nil
}

func (s *streamUseCase) produce(ctx context.Context, input StreamInput, history []chatDomain.Message, events chan<- chatDomain.StreamEvent) {
	defer close(events)

	emit := func(event chatDomain.StreamEvent) bool {
		select {
		case events <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func() {
		emit(chatDomain.StreamEvent{Type: chatDomain.ErrorEvent, Error: streamErrorMessage})
	}

	if input.ConversationID == nil {
		if !emit(chatDomain.StreamEvent{Type: chatDomain.ConversationStartEvent}) {
			return
		}
	}

	result, ok := s.generate(ctx, input, history, emit)
	if !ok {
		fail()
		return
	}

	userMessage := chatDomain.NewUserMessage(input.Message)
	aiMessage := chatDomain.NewAIMessage(result)

	conversationID, err := s.persist(ctx, input, userMessage, aiMessage)
	if err != nil {
		s.logger.Error("failed to persist chat turns", "error", err)
		fail()
		return
	}

	done := chatDomain.DonePayload{Type: "done", ConversationID: conversationID.String()}
	if result.Grounded {
		done.References = result.References
		done.SearchQueries = result.SearchQueries
		done.GroundingSupports = result.GroundingSupports
		done.URLContextURLs = result.URLContextURLs
		done.Grounded = true
	}

	encrypted, err := input.Envelope.EncryptJSON(done)
	if err != nil {
		s.logger.Error("failed to encrypt done event", "error", err)
		fail()
		return
	}
	emit(chatDomain.StreamEvent{Type: chatDomain.EncryptedDoneEvent, EncryptedData: encrypted})
}

// generate runs the grounded or incremental generation path and emits the
// encrypted chunk events. Returns ok=false when the stream must terminate
// with an error event.
func (s *streamUseCase) generate(
	ctx context.Context,
	input StreamInput,
	history []chatDomain.Message,
	emit func(chatDomain.StreamEvent) bool,
) (chatDomain.GenerationResult, bool) {
	var result chatDomain.GenerationResult

	if input.EnableSearch {
		grounded, err := s.generator.GenerateGrounded(ctx, input.Model, history, input.Message, true)
		if err != nil {
			s.logger.Error("grounded generation failed", "error", err)
			return result, false
		}

		encrypted, err := input.Envelope.EncryptJSON(chatDomain.ChunkPayload{Content: grounded.Text})
		if err != nil {
			s.logger.Error("failed to encrypt chunk", "error", err)
			return result, false
		}
		if !emit(chatDomain.StreamEvent{Type: chatDomain.EncryptedChunkEvent, EncryptedData: encrypted}) {
			return result, false
		}
		return grounded, true
	}

	text, err := s.generator.GenerateStream(ctx, input.Model, history, input.Message, func(chunk string) error {
		encrypted, err := input.Envelope.EncryptJSON(chatDomain.ChunkPayload{Content: chunk})
		if err != nil {
			return err
		}
		if !emit(chatDomain.StreamEvent{Type: chatDomain.EncryptedChunkEvent, EncryptedData: encrypted}) {
			return errStreamCancelled
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, errStreamCancelled) {
			s.logger.Error("streaming generation failed", "error", err)
		}
		return result, false
	}

	result.Text = text
	return result, true
}

// persist stores the user and ai turns atomically, creating the
// conversation with a generated title when the stream started a new one.
func (s *streamUseCase) persist(
	ctx context.Context,
	input StreamInput,
	userMessage, aiMessage chatDomain.Message,
) (uuid.UUID, error) {
	if input.ConversationID != nil {
		conversationID := *input.ConversationID
		err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
			return s.conversationRepo.AppendMessages(txCtx, conversationID, []chatDomain.Message{userMessage, aiMessage})
		})
		return conversationID, err
	}

	now := time.Now().UTC()
	conversation := &chatDomain.Conversation{
		ID:          uuid.Must(uuid.NewV7()),
		Title:       s.generator.GenerateTitle(ctx, input.Message),
		Messages:    []chatDomain.Message{userMessage, aiMessage},
		CreatedAt:   now,
		LastUpdated: now,
	}
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.conversationRepo.Create(txCtx, conversation)
	})
	return conversation.ID, err
}
