// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	chatUseCase "github.com/allisson/chatapi/internal/chat/usecase"
)

// MockStreamUseCase is a mock implementation of StreamUseCase for testing.
type MockStreamUseCase struct {
	mock.Mock
}

// Stream mocks the Stream method of StreamUseCase.
func (m *MockStreamUseCase) Stream(ctx context.Context, input chatUseCase.StreamInput) (<-chan chatDomain.StreamEvent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan chatDomain.StreamEvent), args.Error(1)
}

// MockConversationUseCase is a mock implementation of ConversationUseCase for testing.
type MockConversationUseCase struct {
	mock.Mock
}

// List mocks the List method of ConversationUseCase.
func (m *MockConversationUseCase) List(ctx context.Context, limit, offset int, starred *bool) ([]chatDomain.Summary, bool, error) {
	args := m.Called(ctx, limit, offset, starred)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]chatDomain.Summary), args.Bool(1), args.Error(2)
}

// Get mocks the Get method of ConversationUseCase.
func (m *MockConversationUseCase) Get(ctx context.Context, conversationID uuid.UUID) (*chatDomain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chatDomain.Conversation), args.Error(1)
}

// SetStarred mocks the SetStarred method of ConversationUseCase.
func (m *MockConversationUseCase) SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error {
	args := m.Called(ctx, conversationID, starred)
	return args.Error(0)
}

// Rename mocks the Rename method of ConversationUseCase.
func (m *MockConversationUseCase) Rename(ctx context.Context, conversationID uuid.UUID, title string) error {
	args := m.Called(ctx, conversationID, title)
	return args.Error(0)
}

// Delete mocks the Delete method of ConversationUseCase.
func (m *MockConversationUseCase) Delete(ctx context.Context, conversationID uuid.UUID) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

// DeleteNonStarred mocks the DeleteNonStarred method of ConversationUseCase.
func (m *MockConversationUseCase) DeleteNonStarred(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
