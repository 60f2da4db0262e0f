package dto

import (
	"time"

	"github.com/google/uuid"

	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
)

// NoteResponse is the API representation of a note.
type NoteResponse struct {
	NoteID    uuid.UUID `json:"note_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateNoteResponse is the result of a note update. Content is null when
// the update did not change it.
type UpdateNoteResponse struct {
	NoteID    uuid.UUID `json:"note_id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapNoteToResponse builds the API representation of a note.
func MapNoteToResponse(note *notesDomain.Note) NoteResponse {
	return NoteResponse{
		NoteID:    note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// MapNotesToResponse builds the listing payload. An empty listing is an
// empty array, not null.
func MapNotesToResponse(notes []notesDomain.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		responses = append(responses, MapNoteToResponse(&notes[i]))
	}
	return responses
}
