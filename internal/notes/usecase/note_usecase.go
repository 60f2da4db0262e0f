package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/allisson/chatapi/internal/crypto/service"
	apperrors "github.com/allisson/chatapi/internal/errors"
	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
)

// notePayload is the plaintext shape sealed into the at-rest envelope.
type notePayload struct {
	Content string `json:"content"`
}

// noteUseCase implements NoteUseCase with envelope encryption of note
// content before it reaches the repository.
type noteUseCase struct {
	noteRepo NoteRepository
	envelope cryptoService.Envelope
	logger   *slog.Logger
}

// NewNoteUseCase creates a new note use case with required dependencies.
func NewNoteUseCase(noteRepo NoteRepository, envelope cryptoService.Envelope, logger *slog.Logger) NoteUseCase {
	return &noteUseCase{
		noteRepo: noteRepo,
		envelope: envelope,
		logger:   logger,
	}
}

// List returns the owner's notes with decrypted content. A note whose
// envelope cannot be opened is returned with empty content rather than
// failing the whole listing.
func (u *noteUseCase) List(ctx context.Context, owner string) ([]notesDomain.Note, error) {
	notes, err := u.noteRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	for i := range notes {
		var payload notePayload
		if err := u.envelope.DecryptJSON(notes[i].EncryptedContent, &payload); err != nil {
			u.logger.Warn("failed to open note content", "note_id", notes[i].ID, "error", err)
			continue
		}
		notes[i].Content = payload.Content
	}
	return notes, nil
}

// Create stores a new note with its content sealed at rest.
func (u *noteUseCase) Create(ctx context.Context, owner, title, content string) (*notesDomain.Note, error) {
	note := notesDomain.NewNote(owner, title, content)

	sealed, err := u.envelope.EncryptJSON(notePayload{Content: content})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal note content")
	}
	note.EncryptedContent = sealed

	if err := u.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	u.logger.Info("note created", "note_id", note.ID)
	return note, nil
}

// Get returns a note with decrypted content. The note must belong to owner.
func (u *noteUseCase) Get(ctx context.Context, owner string, noteID uuid.UUID) (*notesDomain.Note, error) {
	note, err := u.authorize(ctx, owner, noteID)
	if err != nil {
		return nil, err
	}

	var payload notePayload
	if err := u.envelope.DecryptJSON(note.EncryptedContent, &payload); err != nil {
		u.logger.Error("failed to open note content", "note_id", note.ID, "error", err)
		return nil, apperrors.New("failed to open note content")
	}
	note.Content = payload.Content
	return note, nil
}

// Update changes a note's title and content. Nil input fields keep their
// current value, and the content envelope is only resealed when new content
// is provided.
func (u *noteUseCase) Update(ctx context.Context, owner string, noteID uuid.UUID, input UpdateNoteInput) (*notesDomain.Note, error) {
	note, err := u.authorize(ctx, owner, noteID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Content != nil {
		sealed, err := u.envelope.EncryptJSON(notePayload{Content: *input.Content})
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to seal note content")
		}
		note.EncryptedContent = sealed
		note.Content = *input.Content
	} else {
		note.Content = ""
	}
	note.UpdatedAt = time.Now().UTC()

	if err := u.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	u.logger.Info("note updated", "note_id", note.ID)
	return note, nil
}

// Delete removes a note. The note must belong to owner.
func (u *noteUseCase) Delete(ctx context.Context, owner string, noteID uuid.UUID) error {
	if _, err := u.authorize(ctx, owner, noteID); err != nil {
		return err
	}

	if err := u.noteRepo.Delete(ctx, noteID); err != nil {
		return err
	}

	u.logger.Info("note deleted", "note_id", noteID)
	return nil
}

// authorize loads the note and checks ownership. Absent notes report not
// found before the ownership check.
func (u *noteUseCase) authorize(ctx context.Context, owner string, noteID uuid.UUID) (*notesDomain.Note, error) {
	note, err := u.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.Owner != owner {
		return nil, notesDomain.ErrNoteForbidden
	}
	return note, nil
}
