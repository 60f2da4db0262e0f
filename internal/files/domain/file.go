// Package domain defines the core domain models and errors for file
// storage. Objects live under a "public/" or "private/" prefix in a single
// bucket, and moving a file between the two is what shares or unshares it.
package domain

import (
	"time"

	"github.com/allisson/chatapi/internal/errors"
)

// File-specific error definitions.
var (
	// ErrFileNotFound indicates the object does not exist in the bucket.
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")
	// ErrFileTooLarge indicates the upload exceeds the configured size cap.
	ErrFileTooLarge = errors.Wrap(errors.ErrInvalidInput, "file exceeds the maximum upload size")
	// ErrInvalidFileID indicates the file id cannot be used as an object name.
	ErrInvalidFileID = errors.Wrap(errors.ErrInvalidInput, "invalid file id")
)

// FileInfo is a bucket listing entry.
type FileInfo struct {
	FileID     string `json:"file_id"`
	ObjectPath string `json:"object_path"`
	Size       int64  `json:"size"`
	IsPublic   bool   `json:"is_public"`
	PublicURL  string `json:"public_url,omitempty"`
}

// FileAttributes holds the stored metadata of a single object.
type FileAttributes struct {
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	PublicURL   string    `json:"public_url,omitempty"`
}
