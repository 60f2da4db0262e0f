package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"

	apperrors "github.com/allisson/chatapi/internal/errors"
	filesDomain "github.com/allisson/chatapi/internal/files/domain"
)

const testMaxFileSize = 1024

func newTestStorage(t *testing.T) (*StorageService, *blob.Bucket) {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	return NewStorageService(bucket, "https://storage.example.com/test-bucket", testMaxFileSize), bucket
}

func TestStorageService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		storage, _ := newTestStorage(t)

		path, size, err := storage.Upload(ctx, strings.NewReader("hello world"), "greeting.txt", false)
		require.NoError(t, err)
		assert.Equal(t, "private/greeting.txt", path)
		assert.Equal(t, int64(11), size)

		data, err := storage.Download(ctx, "greeting.txt", false)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), data)
	})

	t.Run("public prefix", func(t *testing.T) {
		storage, _ := newTestStorage(t)

		path, _, err := storage.Upload(ctx, strings.NewReader("shared"), "shared.txt", true)
		require.NoError(t, err)
		assert.Equal(t, "public/shared.txt", path)
	})

	t.Run("size cap", func(t *testing.T) {
		storage, _ := newTestStorage(t)

		oversized := bytes.Repeat([]byte("x"), testMaxFileSize+1)
		_, _, err := storage.Upload(ctx, bytes.NewReader(oversized), "big.bin", false)
		assert.ErrorIs(t, err, filesDomain.ErrFileTooLarge)

		exists, err := storage.Exists(ctx, "big.bin", false)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("invalid file id", func(t *testing.T) {
		storage, _ := newTestStorage(t)

		for _, fileID := range []string{"", ".", "..", "a/b", `a\b`} {
			_, _, err := storage.Upload(ctx, strings.NewReader("x"), fileID, false)
			assert.ErrorIs(t, err, filesDomain.ErrInvalidFileID, "file id %q", fileID)
		}
	})
}

func TestStorageService_UploadFromURL(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("remote content"))
		}))
		defer server.Close()

		storage, _ := newTestStorage(t)

		path, size, err := storage.UploadFromURL(ctx, server.URL, "remote.txt", false)
		require.NoError(t, err)
		assert.Equal(t, "private/remote.txt", path)
		assert.Equal(t, int64(14), size)
	})

	t.Run("declared content length over the cap", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", "1048576")
			_, _ = w.Write(bytes.Repeat([]byte("x"), 1048576))
		}))
		defer server.Close()

		storage, _ := newTestStorage(t)

		_, _, err := storage.UploadFromURL(ctx, server.URL, "big.bin", false)
		assert.ErrorIs(t, err, filesDomain.ErrFileTooLarge)
	})

	t.Run("upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		storage, _ := newTestStorage(t)

		_, _, err := storage.UploadFromURL(ctx, server.URL, "remote.txt", false)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})
}

func TestStorageService_List(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	_, _, err := storage.Upload(ctx, strings.NewReader("one"), "private-file", false)
	require.NoError(t, err)
	_, _, err = storage.Upload(ctx, strings.NewReader("two"), "public-file", true)
	require.NoError(t, err)

	t.Run("all files", func(t *testing.T) {
		files, err := storage.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, files, 2)

		assert.Equal(t, "private-file", files[0].FileID)
		assert.False(t, files[0].IsPublic)
		assert.Empty(t, files[0].PublicURL)

		assert.Equal(t, "public-file", files[1].FileID)
		assert.True(t, files[1].IsPublic)
		assert.Equal(t, "https://storage.example.com/test-bucket/public/public-file", files[1].PublicURL)
	})

	t.Run("public only", func(t *testing.T) {
		isPublic := true
		files, err := storage.List(ctx, &isPublic)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "public-file", files[0].FileID)
	})

	t.Run("private only", func(t *testing.T) {
		isPublic := false
		files, err := storage.List(ctx, &isPublic)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "private-file", files[0].FileID)
	})
}

func TestStorageService_Download_NotFound(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	_, err := storage.Download(ctx, "missing", false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStorageService_GetAttributes(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	_, _, err := storage.Upload(ctx, strings.NewReader("shared"), "shared.txt", true)
	require.NoError(t, err)

	attrs, err := storage.GetAttributes(ctx, "shared.txt", true)
	require.NoError(t, err)
	assert.Equal(t, int64(6), attrs.Size)
	assert.Equal(t, "https://storage.example.com/test-bucket/public/shared.txt", attrs.PublicURL)

	_, err = storage.GetAttributes(ctx, "missing", false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStorageService_Rename(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	_, _, err := storage.Upload(ctx, strings.NewReader("content"), "old-name", false)
	require.NoError(t, err)

	newPath, err := storage.Rename(ctx, "old-name", "new-name", false)
	require.NoError(t, err)
	assert.Equal(t, "private/new-name", newPath)

	data, err := storage.Download(ctx, "new-name", false)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	exists, err := storage.Exists(ctx, "old-name", false)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = storage.Rename(ctx, "missing", "whatever", false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStorageService_Delete(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	_, _, err := storage.Upload(ctx, strings.NewReader("bye"), "doomed", false)
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, "doomed", false))
	assert.ErrorIs(t, storage.Delete(ctx, "doomed", false), apperrors.ErrNotFound)
}

func TestStorageService_ToggleShare(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestStorage(t)

	_, _, err := storage.Upload(ctx, strings.NewReader("secret"), "doc", false)
	require.NoError(t, err)

	newPath, newPublic, err := storage.ToggleShare(ctx, "doc", false)
	require.NoError(t, err)
	assert.Equal(t, "public/doc", newPath)
	assert.True(t, newPublic)

	data, err := storage.Download(ctx, "doc", true)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), data)

	exists, err := storage.Exists(ctx, "doc", false)
	require.NoError(t, err)
	assert.False(t, exists)

	newPath, newPublic, err = storage.ToggleShare(ctx, "doc", true)
	require.NoError(t, err)
	assert.Equal(t, "private/doc", newPath)
	assert.False(t, newPublic)
}
