package repository

import (
	"database/sql"
	"encoding/json"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
	apperrors "github.com/allisson/chatapi/internal/errors"
)

// previewLength caps the last-message preview in conversation listings.
const previewLength = 100

// groundingColumns holds the serialized grounding metadata of a message.
// Empty collections are stored as NULL.
type groundingColumns struct {
	references     []byte
	searchQueries  []byte
	supports       []byte
	urlContextURLs []byte
}

func marshalGrounding(message *chatDomain.Message) (groundingColumns, error) {
	var columns groundingColumns
	var err error

	if columns.references, err = marshalJSONColumn(message.References); err != nil {
		return columns, apperrors.Wrap(err, "failed to marshal references")
	}
	if columns.searchQueries, err = marshalJSONColumn(message.SearchQueries); err != nil {
		return columns, apperrors.Wrap(err, "failed to marshal search queries")
	}
	if columns.supports, err = marshalJSONColumn(message.GroundingSupports); err != nil {
		return columns, apperrors.Wrap(err, "failed to marshal grounding supports")
	}
	if columns.urlContextURLs, err = marshalJSONColumn(message.URLContextURLs); err != nil {
		return columns, apperrors.Wrap(err, "failed to marshal url context urls")
	}
	return columns, nil
}

func marshalJSONColumn[T any](values []T) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return json.Marshal(values)
}

func unmarshalJSONColumn[T any](data []byte, target *[]T) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}

// rowScanner abstracts sql.Row and sql.Rows for message scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(scanner rowScanner) (chatDomain.Message, error) {
	var message chatDomain.Message
	var references, searchQueries, supports, urlContextURLs []byte

	err := scanner.Scan(
		&message.ID,
		&message.Role,
		&message.Content,
		&references,
		&searchQueries,
		&supports,
		&urlContextURLs,
		&message.Grounded,
		&message.CreatedAt,
	)
	if err != nil {
		return message, apperrors.Wrap(err, "failed to scan message")
	}

	if err := unmarshalJSONColumn(references, &message.References); err != nil {
		return message, apperrors.Wrap(err, "failed to unmarshal references")
	}
	if err := unmarshalJSONColumn(searchQueries, &message.SearchQueries); err != nil {
		return message, apperrors.Wrap(err, "failed to unmarshal search queries")
	}
	if err := unmarshalJSONColumn(supports, &message.GroundingSupports); err != nil {
		return message, apperrors.Wrap(err, "failed to unmarshal grounding supports")
	}
	if err := unmarshalJSONColumn(urlContextURLs, &message.URLContextURLs); err != nil {
		return message, apperrors.Wrap(err, "failed to unmarshal url context urls")
	}

	return message, nil
}

func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

func requireRowsAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
