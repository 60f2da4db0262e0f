package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgreSQLConversationRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostgreSQLConversationRepository(db)

	now := time.Now().UTC()
	conversation := &chatDomain.Conversation{
		ID:          uuid.Must(uuid.NewV7()),
		Title:       "Greeting",
		CreatedAt:   now,
		LastUpdated: now,
		Messages: []chatDomain.Message{
			chatDomain.NewUserMessage("hi"),
			chatDomain.NewAIMessage(chatDomain.GenerationResult{
				Text:          "hello",
				References:    []chatDomain.Reference{{ID: 1, Title: "Ref", URL: "https://example.com", Domain: "example.com"}},
				SearchQueries: []string{"greeting"},
				Grounded:      true,
			}),
		},
	}

	mock.ExpectExec(`INSERT INTO conversations`).
		WithArgs(conversation.ID, "Greeting", false, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(conversation.Messages[0].ID, conversation.ID, chatDomain.UserRole, "hi",
			[]byte(nil), []byte(nil), []byte(nil), []byte(nil), false, conversation.Messages[0].CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(conversation.Messages[1].ID, conversation.ID, chatDomain.AIRole, "hello",
			[]byte(`[{"id":1,"title":"Ref","url":"https://example.com","domain":"example.com"}]`),
			[]byte(`["greeting"]`), []byte(nil), []byte(nil), true, conversation.Messages[1].CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(ctx, conversation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLConversationRepository_AppendMessages(t *testing.T) {
	ctx := context.Background()
	conversationID := uuid.Must(uuid.NewV7())

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)
		message := chatDomain.NewUserMessage("hi")

		mock.ExpectExec(`UPDATE conversations SET last_updated`).
			WithArgs(sqlmock.AnyArg(), conversationID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO messages`).
			WithArgs(message.ID, conversationID, chatDomain.UserRole, "hi",
				[]byte(nil), []byte(nil), []byte(nil), []byte(nil), false, message.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.AppendMessages(ctx, conversationID, []chatDomain.Message{message}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conversation not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)

		mock.ExpectExec(`UPDATE conversations SET last_updated`).
			WithArgs(sqlmock.AnyArg(), conversationID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AppendMessages(ctx, conversationID, []chatDomain.Message{chatDomain.NewUserMessage("hi")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLConversationRepository_Get(t *testing.T) {
	ctx := context.Background()
	conversationID := uuid.Must(uuid.NewV7())
	messageID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	t.Run("success with grounding metadata", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)

		mock.ExpectQuery(`SELECT id, title, starred, created_at, last_updated`).
			WithArgs(conversationID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "starred", "created_at", "last_updated"}).
				AddRow(conversationID.String(), "Greeting", true, now, now))

		mock.ExpectQuery(`SELECT id, role, content`).
			WithArgs(conversationID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "role", "content", "grounding_references", "search_queries",
				"grounding_supports", "url_context_urls", "grounded", "created_at",
			}).AddRow(
				messageID.String(), "ai", "Hello[1] world",
				[]byte(`[{"id":1,"title":"Ref","url":"https://example.com","domain":"example.com"}]`),
				[]byte(`["greeting"]`),
				[]byte(`[{"start_index":0,"end_index":5,"text":"Hello","reference_indices":[1]}]`),
				nil, true, now,
			))

		conversation, err := repo.Get(ctx, conversationID)

		require.NoError(t, err)
		assert.Equal(t, conversationID, conversation.ID)
		assert.True(t, conversation.Starred)
		require.Len(t, conversation.Messages, 1)
		message := conversation.Messages[0]
		assert.Equal(t, chatDomain.AIRole, message.Role)
		assert.True(t, message.Grounded)
		require.Len(t, message.References, 1)
		assert.Equal(t, "example.com", message.References[0].Domain)
		require.Len(t, message.GroundingSupports, 1)
		assert.Equal(t, []int{1}, message.GroundingSupports[0].ReferenceIndices)
		assert.Empty(t, message.URLContextURLs)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)

		mock.ExpectQuery(`SELECT id, title, starred, created_at, last_updated`).
			WithArgs(conversationID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, conversationID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLConversationRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("without filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)
		conversationID := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(`SELECT c.id, c.title, c.starred`).
			WithArgs(50, 0).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "title", "starred", "created_at", "last_updated", "message_count", "preview",
			}).AddRow(conversationID.String(), "Greeting", false, now, now, 4, "hello there"))

		summaries, err := repo.List(ctx, 50, 0, nil)

		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, conversationID, summaries[0].ID)
		assert.Equal(t, 4, summaries[0].MessageCount)
		assert.Equal(t, "hello there", summaries[0].Preview)
	})

	t.Run("with starred filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)
		starred := true

		mock.ExpectQuery(`SELECT c.id, c.title, c.starred`).
			WithArgs(10, 5, true).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "title", "starred", "created_at", "last_updated", "message_count", "preview",
			}))

		summaries, err := repo.List(ctx, 10, 5, &starred)

		require.NoError(t, err)
		assert.Empty(t, summaries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("long previews are truncated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)
		long := make([]byte, 150)
		for i := range long {
			long[i] = 'x'
		}

		mock.ExpectQuery(`SELECT c.id, c.title, c.starred`).
			WithArgs(50, 0).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "title", "starred", "created_at", "last_updated", "message_count", "preview",
			}).AddRow(uuid.Must(uuid.NewV7()).String(), "Long", false, now, now, 2, string(long)))

		summaries, err := repo.List(ctx, 50, 0, nil)

		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Len(t, summaries[0].Preview, previewLength+3)
		assert.Equal(t, "...", summaries[0].Preview[previewLength:])
	})
}

func TestPostgreSQLConversationRepository_SetStarred(t *testing.T) {
	ctx := context.Background()
	conversationID := uuid.Must(uuid.NewV7())

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)

		mock.ExpectExec(`UPDATE conversations SET starred`).
			WithArgs(true, conversationID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetStarred(ctx, conversationID, true))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)

		mock.ExpectExec(`UPDATE conversations SET starred`).
			WithArgs(false, conversationID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetStarred(ctx, conversationID, false), apperrors.ErrNotFound)
	})
}

func TestPostgreSQLConversationRepository_Delete(t *testing.T) {
	ctx := context.Background()
	conversationID := uuid.Must(uuid.NewV7())

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)

		mock.ExpectExec(`DELETE FROM conversations WHERE id`).
			WithArgs(conversationID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, conversationID))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLConversationRepository(db)

		mock.ExpectExec(`DELETE FROM conversations WHERE id`).
			WithArgs(conversationID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, conversationID), apperrors.ErrNotFound)
	})
}

func TestPostgreSQLConversationRepository_DeleteNonStarred(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostgreSQLConversationRepository(db)

	mock.ExpectExec(`DELETE FROM conversations WHERE starred = FALSE`).
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := repo.DeleteNonStarred(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}
