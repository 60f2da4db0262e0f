// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
	notesUseCase "github.com/allisson/chatapi/internal/notes/usecase"
)

// MockNoteUseCase is a mock implementation of NoteUseCase for testing.
type MockNoteUseCase struct {
	mock.Mock
}

// List mocks the List method of NoteUseCase.
func (m *MockNoteUseCase) List(ctx context.Context, owner string) ([]notesDomain.Note, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notesDomain.Note), args.Error(1)
}

// Create mocks the Create method of NoteUseCase.
func (m *MockNoteUseCase) Create(ctx context.Context, owner, title, content string) (*notesDomain.Note, error) {
	args := m.Called(ctx, owner, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Get mocks the Get method of NoteUseCase.
func (m *MockNoteUseCase) Get(ctx context.Context, owner string, noteID uuid.UUID) (*notesDomain.Note, error) {
	args := m.Called(ctx, owner, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Update mocks the Update method of NoteUseCase.
func (m *MockNoteUseCase) Update(ctx context.Context, owner string, noteID uuid.UUID, input notesUseCase.UpdateNoteInput) (*notesDomain.Note, error) {
	args := m.Called(ctx, owner, noteID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Delete mocks the Delete method of NoteUseCase.
func (m *MockNoteUseCase) Delete(ctx context.Context, owner string, noteID uuid.UUID) error {
	args := m.Called(ctx, owner, noteID)
	return args.Error(0)
}
