// Package mocks provides hand-written mocks for note use case dependencies.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
)

// MockNoteRepository is a mock implementation of NoteRepository for testing.
type MockNoteRepository struct {
	mock.Mock
}

// Create mocks the Create method of NoteRepository.
func (m *MockNoteRepository) Create(ctx context.Context, note *notesDomain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// GetByID mocks the GetByID method of NoteRepository.
func (m *MockNoteRepository) GetByID(ctx context.Context, noteID uuid.UUID) (*notesDomain.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// ListByOwner mocks the ListByOwner method of NoteRepository.
func (m *MockNoteRepository) ListByOwner(ctx context.Context, owner string) ([]notesDomain.Note, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notesDomain.Note), args.Error(1)
}

// Update mocks the Update method of NoteRepository.
func (m *MockNoteRepository) Update(ctx context.Context, note *notesDomain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// Delete mocks the Delete method of NoteRepository.
func (m *MockNoteRepository) Delete(ctx context.Context, noteID uuid.UUID) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}
