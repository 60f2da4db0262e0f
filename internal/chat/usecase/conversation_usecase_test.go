package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	usecaseMocks "github.com/allisson/chatapi/internal/chat/usecase/mocks"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

func TestConversationUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("full page signals more results", func(t *testing.T) {
		mockRepo := &usecaseMocks.MockConversationRepository{}
		summaries := []chatDomain.Summary{{ID: uuid.Must(uuid.NewV7())}, {ID: uuid.Must(uuid.NewV7())}}
		mockRepo.On("List", mock.Anything, 2, 0, (*bool)(nil)).Return(summaries, nil)

		useCase := NewConversationUseCase(mockRepo, slog.New(slog.DiscardHandler))
		got, hasMore, err := useCase.List(ctx, 2, 0, nil)

		require.NoError(t, err)
		assert.Equal(t, summaries, got)
		assert.True(t, hasMore)
	})

	t.Run("partial page", func(t *testing.T) {
		mockRepo := &usecaseMocks.MockConversationRepository{}
		mockRepo.On("List", mock.Anything, 50, 0, (*bool)(nil)).
			Return([]chatDomain.Summary{{ID: uuid.Must(uuid.NewV7())}}, nil)

		useCase := NewConversationUseCase(mockRepo, slog.New(slog.DiscardHandler))
		got, hasMore, err := useCase.List(ctx, 50, 0, nil)

		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.False(t, hasMore)
	})

	t.Run("starred filter is passed through", func(t *testing.T) {
		mockRepo := &usecaseMocks.MockConversationRepository{}
		starred := true
		mockRepo.On("List", mock.Anything, 50, 10, &starred).Return([]chatDomain.Summary{}, nil)

		useCase := NewConversationUseCase(mockRepo, slog.New(slog.DiscardHandler))
		_, _, err := useCase.List(ctx, 50, 10, &starred)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestConversationUseCase_Rename(t *testing.T) {
	ctx := context.Background()
	conversationID := uuid.Must(uuid.NewV7())

	t.Run("trims the title", func(t *testing.T) {
		mockRepo := &usecaseMocks.MockConversationRepository{}
		mockRepo.On("Rename", mock.Anything, conversationID, "New Title").Return(nil)

		useCase := NewConversationUseCase(mockRepo, slog.New(slog.DiscardHandler))
		require.NoError(t, useCase.Rename(ctx, conversationID, "  New Title  "))
		mockRepo.AssertExpectations(t)
	})

	t.Run("blank title", func(t *testing.T) {
		mockRepo := &usecaseMocks.MockConversationRepository{}

		useCase := NewConversationUseCase(mockRepo, slog.New(slog.DiscardHandler))
		err := useCase.Rename(ctx, conversationID, "   ")

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Rename", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		mockRepo := &usecaseMocks.MockConversationRepository{}
		mockRepo.On("Rename", mock.Anything, conversationID, "Title").Return(apperrors.ErrNotFound)

		useCase := NewConversationUseCase(mockRepo, slog.New(slog.DiscardHandler))
		assert.ErrorIs(t, useCase.Rename(ctx, conversationID, "Title"), apperrors.ErrNotFound)
	})
}

func TestConversationUseCase_DeleteNonStarred(t *testing.T) {
	mockRepo := &usecaseMocks.MockConversationRepository{}
	mockRepo.On("DeleteNonStarred", mock.Anything).Return(int64(3), nil)

	useCase := NewConversationUseCase(mockRepo, slog.New(slog.DiscardHandler))
	deleted, err := useCase.DeleteNonStarred(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
