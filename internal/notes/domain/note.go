// Package domain defines the core domain models and errors for notes. Note
// content is encrypted at rest with the process-wide envelope key and only
// decrypted in memory when serving a request from its owner.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/chatapi/internal/errors"
)

// Note-specific error definitions.
var (
	// ErrNoteNotFound indicates the note does not exist.
	ErrNoteNotFound = errors.Wrap(errors.ErrNotFound, "note not found")
	// ErrNoteForbidden indicates the note belongs to a different user.
	ErrNoteForbidden = errors.Wrap(errors.ErrForbidden, "note does not belong to the authenticated user")
)

// Note represents a personal note owned by a single user.
type Note struct {
	ID uuid.UUID `json:"note_id"`
	// Owner is the username of the user the note belongs to.
	Owner string `json:"-"`
	Title string `json:"title"`
	// Content holds the decrypted note body in memory only.
	Content string `json:"content"`
	// EncryptedContent is the sealed envelope persisted at rest.
	EncryptedContent string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewNote creates a note with a generated id and UTC timestamps.
func NewNote(owner, title, content string) *Note {
	now := time.Now().UTC()
	return &Note{
		ID:        uuid.Must(uuid.NewV7()),
		Owner:     owner,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
