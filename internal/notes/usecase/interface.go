// Package usecase implements the business logic for note management. Use
// cases enforce ownership and keep note content sealed between the HTTP
// layer and the database.
package usecase

import (
	"context"

	"github.com/google/uuid"

	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
)

// NoteRepository defines the interface for note persistence operations. The
// repository only ever sees the sealed content envelope.
type NoteRepository interface {
	Create(ctx context.Context, note *notesDomain.Note) error
	GetByID(ctx context.Context, noteID uuid.UUID) (*notesDomain.Note, error)
	// ListByOwner returns the owner's notes ordered by updated_at descending.
	ListByOwner(ctx context.Context, owner string) ([]notesDomain.Note, error)
	// Update persists the title, sealed content and updated_at timestamp.
	Update(ctx context.Context, note *notesDomain.Note) error
	Delete(ctx context.Context, noteID uuid.UUID) error
}

// UpdateNoteInput carries the optional fields of a note update. Nil fields
// keep their current value.
type UpdateNoteInput struct {
	Title   *string
	Content *string
}

// NoteUseCase defines the interface for note management operations. Every
// operation is scoped to the authenticated owner.
type NoteUseCase interface {
	List(ctx context.Context, owner string) ([]notesDomain.Note, error)
	Create(ctx context.Context, owner, title, content string) (*notesDomain.Note, error)
	Get(ctx context.Context, owner string, noteID uuid.UUID) (*notesDomain.Note, error)
	Update(ctx context.Context, owner string, noteID uuid.UUID, input UpdateNoteInput) (*notesDomain.Note, error)
	Delete(ctx context.Context, owner string, noteID uuid.UUID) error
}
