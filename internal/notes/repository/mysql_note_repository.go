package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/chatapi/internal/database"
	apperrors "github.com/allisson/chatapi/internal/errors"
	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
)

// MySQLNoteRepository implements note persistence for MySQL databases.
// UUIDs are stored as binary(16).
type MySQLNoteRepository struct {
	db *sql.DB
}

// NewMySQLNoteRepository creates a new MySQLNoteRepository.
func NewMySQLNoteRepository(db *sql.DB) *MySQLNoteRepository {
	return &MySQLNoteRepository{db: db}
}

// Create inserts a new note.
func (m *MySQLNoteRepository) Create(ctx context.Context, note *notesDomain.Note) error {
	querier := database.GetTx(ctx, m.db)

	noteID, err := note.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal note id")
	}

	query := `INSERT INTO notes (id, owner, title, content_encrypted, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		noteID,
		note.Owner,
		note.Title,
		note.EncryptedContent,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create note")
	}
	return nil
}

// GetByID retrieves a note by its id.
func (m *MySQLNoteRepository) GetByID(ctx context.Context, noteID uuid.UUID) (*notesDomain.Note, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := noteID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal note id")
	}

	query := `SELECT id, owner, title, content_encrypted, created_at, updated_at
			  FROM notes
			  WHERE id = ?`

	var note notesDomain.Note
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&note.ID,
		&note.Owner,
		&note.Title,
		&note.EncryptedContent,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notesDomain.ErrNoteNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get note")
	}
	return &note, nil
}

// ListByOwner returns the owner's notes ordered by updated_at descending.
func (m *MySQLNoteRepository) ListByOwner(ctx context.Context, owner string) ([]notesDomain.Note, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner, title, content_encrypted, created_at, updated_at
			  FROM notes
			  WHERE owner = ?
			  ORDER BY updated_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notes")
	}
	defer func() { _ = rows.Close() }()

	var notes []notesDomain.Note
	for rows.Next() {
		var note notesDomain.Note
		err := rows.Scan(
			&note.ID,
			&note.Owner,
			&note.Title,
			&note.EncryptedContent,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan note")
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate notes")
	}
	return notes, nil
}

// Update persists the title, sealed content and updated_at timestamp.
func (m *MySQLNoteRepository) Update(ctx context.Context, note *notesDomain.Note) error {
	querier := database.GetTx(ctx, m.db)

	noteID, err := note.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal note id")
	}

	query := `UPDATE notes
			  SET title = ?, content_encrypted = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, note.Title, note.EncryptedContent, note.UpdatedAt, noteID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update note")
	}
	return requireNoteRowsAffected(result)
}

// Delete removes a note.
func (m *MySQLNoteRepository) Delete(ctx context.Context, noteID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := noteID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal note id")
	}

	query := `DELETE FROM notes WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete note")
	}
	return requireNoteRowsAffected(result)
}
