// Package repository implements note persistence for PostgreSQL and MySQL.
// The content column only ever holds the sealed envelope produced by the
// use case layer.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/chatapi/internal/database"
	apperrors "github.com/allisson/chatapi/internal/errors"
	notesDomain "github.com/allisson/chatapi/internal/notes/domain"
)

// PostgreSQLNoteRepository implements note persistence for PostgreSQL
// databases.
type PostgreSQLNoteRepository struct {
	db *sql.DB
}

// NewPostgreSQLNoteRepository creates a new PostgreSQLNoteRepository.
func NewPostgreSQLNoteRepository(db *sql.DB) *PostgreSQLNoteRepository {
	return &PostgreSQLNoteRepository{db: db}
}

// Create inserts a new note.
func (p *PostgreSQLNoteRepository) Create(ctx context.Context, note *notesDomain.Note) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO notes (id, owner, title, content_encrypted, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		note.ID,
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
func (p *PostgreSQLNoteRepository) GetByID(ctx context.Context, noteID uuid.UUID) (*notesDomain.Note, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner, title, content_encrypted, created_at, updated_at
			  FROM notes
			  WHERE id = $1`

	var note notesDomain.Note
	err := querier.QueryRowContext(ctx, query, noteID).Scan(
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
func (p *PostgreSQLNoteRepository) ListByOwner(ctx context.Context, owner string) ([]notesDomain.Note, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner, title, content_encrypted, created_at, updated_at
			  FROM notes
			  WHERE owner = $1
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
func (p *PostgreSQLNoteRepository) Update(ctx context.Context, note *notesDomain.Note) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE notes
			  SET title = $2, content_encrypted = $3, updated_at = $4
			  WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, note.ID, note.Title, note.EncryptedContent, note.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to update note")
	}
	return requireNoteRowsAffected(result)
}

// Delete removes a note.
func (p *PostgreSQLNoteRepository) Delete(ctx context.Context, noteID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM notes WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, noteID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete note")
	}
	return requireNoteRowsAffected(result)
}

func requireNoteRowsAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return notesDomain.ErrNoteNotFound
	}
	return nil
}
