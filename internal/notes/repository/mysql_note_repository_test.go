package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/chatapi/internal/errors"
)

func binaryID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()

	data, err := id.MarshalBinary()
	require.NoError(t, err)
	return data
}

func TestMySQLNoteRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewMySQLNoteRepository(db)

	note := newStoredNote("alice")

	mock.ExpectExec(`INSERT INTO notes`).
		WithArgs(binaryID(t, note.ID), "alice", "Groceries", "sealed-envelope", note.CreatedAt, note.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(ctx, note))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLNoteRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	note := newStoredNote("alice")

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLNoteRepository(db)

		rows := sqlmock.NewRows([]string{"id", "owner", "title", "content_encrypted", "created_at", "updated_at"}).
			AddRow(binaryID(t, note.ID), note.Owner, note.Title, note.EncryptedContent, note.CreatedAt, note.UpdatedAt)
		mock.ExpectQuery(`SELECT id, owner, title, content_encrypted, created_at, updated_at`).
			WithArgs(binaryID(t, note.ID)).
			WillReturnRows(rows)

		got, err := repo.GetByID(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, note.ID, got.ID)
		assert.Equal(t, "alice", got.Owner)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLNoteRepository(db)

		mock.ExpectQuery(`SELECT id, owner, title, content_encrypted, created_at, updated_at`).
			WithArgs(binaryID(t, note.ID)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, note.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMySQLNoteRepository_Update(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewMySQLNoteRepository(db)

	note := newStoredNote("alice")

	mock.ExpectExec(`UPDATE notes`).
		WithArgs(note.Title, note.EncryptedContent, note.UpdatedAt, binaryID(t, note.ID)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(ctx, note))
}

func TestMySQLNoteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	noteID := uuid.Must(uuid.NewV7())

	db, mock := newMockDB(t)
	repo := NewMySQLNoteRepository(db)

	mock.ExpectExec(`DELETE FROM notes`).
		WithArgs(binaryID(t, noteID)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(ctx, noteID), apperrors.ErrNotFound)
}
