package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	"github.com/allisson/chatapi/internal/database"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

// MySQLConversationRepository implements conversation persistence for MySQL
// databases. Conversation and message ids are stored as binary(16).
type MySQLConversationRepository struct {
	db *sql.DB
}

// NewMySQLConversationRepository creates a new MySQLConversationRepository.
func NewMySQLConversationRepository(db *sql.DB) *MySQLConversationRepository {
	return &MySQLConversationRepository{db: db}
}

// Create inserts a conversation together with its initial messages.
func (m *MySQLConversationRepository) Create(ctx context.Context, conversation *chatDomain.Conversation) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO conversations (id, title, starred, created_at, last_updated)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := conversation.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		conversation.Title,
		conversation.Starred,
		conversation.CreatedAt,
		conversation.LastUpdated,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create conversation")
	}

	for i := range conversation.Messages {
		if err := m.insertMessage(ctx, querier, conversation.ID, &conversation.Messages[i]); err != nil {
			return err
		}
	}
	return nil
}

// AppendMessages adds messages to an existing conversation and advances its
// last_updated timestamp.
func (m *MySQLConversationRepository) AppendMessages(ctx context.Context, conversationID uuid.UUID, messages []chatDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE conversations SET last_updated = ? WHERE id = ?`

	id, err := conversationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation id")
	}

	result, err := querier.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch conversation")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	for i := range messages {
		if err := m.insertMessage(ctx, querier, conversationID, &messages[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MySQLConversationRepository) insertMessage(ctx context.Context, querier database.Querier, conversationID uuid.UUID, message *chatDomain.Message) error {
	query := `INSERT INTO messages (id, conversation_id, role, content, grounding_references, search_queries,
			  grounding_supports, url_context_urls, grounded, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := message.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}
	convID, err := conversationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation id")
	}

	grounding, err := marshalGrounding(message)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		convID,
		message.Role,
		message.Content,
		grounding.references,
		grounding.searchQueries,
		grounding.supports,
		grounding.urlContextURLs,
		message.Grounded,
		message.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create message")
	}
	return nil
}

// Get retrieves a conversation with all of its messages in creation order.
func (m *MySQLConversationRepository) Get(ctx context.Context, conversationID uuid.UUID) (*chatDomain.Conversation, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, title, starred, created_at, last_updated
			  FROM conversations
			  WHERE id = ?`

	id, err := conversationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal conversation id")
	}

	var conversation chatDomain.Conversation
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&conversation.ID,
		&conversation.Title,
		&conversation.Starred,
		&conversation.CreatedAt,
		&conversation.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get conversation")
	}

	messagesQuery := `SELECT id, role, content, grounding_references, search_queries,
					  grounding_supports, url_context_urls, grounded, created_at
					  FROM messages
					  WHERE conversation_id = ?
					  ORDER BY created_at, id`

	rows, err := querier.QueryContext(ctx, messagesQuery, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer rows.Close()

	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		conversation.Messages = append(conversation.Messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate messages")
	}

	return &conversation, nil
}

// List returns conversation summaries ordered by last_updated descending,
// with the message count and a preview of the last message.
func (m *MySQLConversationRepository) List(ctx context.Context, limit, offset int, starred *bool) ([]chatDomain.Summary, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT c.id, c.title, c.starred, c.created_at, c.last_updated,
			  (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id) AS message_count,
			  (SELECT m.content FROM messages m WHERE m.conversation_id = c.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS preview
			  FROM conversations c `
	args := []any{}
	if starred != nil {
		query += `WHERE c.starred = ? `
		args = append(args, *starred)
	}
	query += `ORDER BY c.last_updated DESC
			  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list conversations")
	}
	defer rows.Close()

	summaries := []chatDomain.Summary{}
	for rows.Next() {
		var summary chatDomain.Summary
		var preview sql.NullString
		err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.Starred,
			&summary.CreatedAt,
			&summary.LastUpdated,
			&summary.MessageCount,
			&preview,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan conversation summary")
		}
		summary.Preview = previewOf(preview.String)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate conversations")
	}

	return summaries, nil
}

// SetStarred stars or unstars a conversation.
func (m *MySQLConversationRepository) SetStarred(ctx context.Context, conversationID uuid.UUID, starred bool) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE conversations SET starred = ? WHERE id = ?`

	id, err := conversationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation id")
	}

	result, err := querier.ExecContext(ctx, query, starred, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to star conversation")
	}
	return requireRowsAffected(result)
}

// Rename changes a conversation title.
func (m *MySQLConversationRepository) Rename(ctx context.Context, conversationID uuid.UUID, title string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE conversations SET title = ? WHERE id = ?`

	id, err := conversationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation id")
	}

	result, err := querier.ExecContext(ctx, query, title, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to rename conversation")
	}
	return requireRowsAffected(result)
}

// Delete removes a conversation, its messages cascade.
func (m *MySQLConversationRepository) Delete(ctx context.Context, conversationID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM conversations WHERE id = ?`

	id, err := conversationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal conversation id")
	}

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete conversation")
	}
	return requireRowsAffected(result)
}

// DeleteNonStarred removes every conversation that is not starred and
// returns the number deleted.
func (m *MySQLConversationRepository) DeleteNonStarred(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM conversations WHERE starred = FALSE`

	result, err := querier.ExecContext(ctx, query)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to bulk delete conversations")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return deleted, nil
}
