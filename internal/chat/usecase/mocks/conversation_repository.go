// Package mocks provides mock implementations for testing chat use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
)

// MockConversationRepository is a mock implementation of ConversationRepository for testing.
type MockConversationRepository struct {
	mock.Mock
}

// Create mocks the Create method of ConversationRepository.
func (m *MockConversationRepository) Create(ctx context.Context, conversation *chatDomain.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

// AppendMessages mocks the AppendMessages method of ConversationRepository.
func (m *MockConversationRepository) AppendMessages(ctx context.Context, conversationID uuid.UUID, messages []chatDomain.Message) error {
	args := m.Called(ctx, conversationID, messages)
	return args.Error(0)
}

// Get mocks the Get method of ConversationRepository.
func (m *MockConversationRepository) Get(ctx context.Context, conversationID uuid.UUID) (*chatDomain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chatDomain.Conversation), args.Error(1)
}

// List mocks the List method of ConversationRepository.
func (m *MockConversationRepository) List(ctx context.Context, limit, offset int, starred *bool) ([]chatDomain.Summary, error) {
	args := m.Called(ctx, limit, offset, starred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chatDomain.Summary), args.Error(1)
}

// SetStarred mocks the SetStarred method of ConversationRepository.
func (m *MockConversationRepository) SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error {
	args := m.Called(ctx, conversationID, starred)
	return args.Error(0)
}

// Rename mocks the Rename method of ConversationRepository.
func (m *MockConversationRepository) Rename(ctx context.Context, conversationID uuid.UUID, title string) error {
	args := m.Called(ctx, conversationID, title)
	return args.Error(0)
}

// Delete mocks the Delete method of ConversationRepository.
func (m *MockConversationRepository) Delete(ctx context.Context, conversationID uuid.UUID) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

// DeleteNonStarred mocks the DeleteNonStarred method of ConversationRepository.
func (m *MockConversationRepository) DeleteNonStarred(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
