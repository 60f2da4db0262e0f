// Package service implements file storage on a gocloud.dev blob bucket.
// The same service works against GCS, S3, the local filesystem or an
// in-memory bucket depending on the configured bucket URL.
package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/chatapi/internal/errors"
	filesDomain "github.com/allisson/chatapi/internal/files/domain"
)

const (
	publicPrefix  = "public/"
	privatePrefix = "private/"
)

// StorageService stores and serves files from a blob bucket with a
// public/private prefix split.
type StorageService struct {
	bucket        *blob.Bucket
	publicBaseURL string
	maxFileSize   int64
	httpClient    *http.Client
}

// NewStorageService creates a new storage service. publicBaseURL may be
// empty, in which case listings and attributes carry no public links.
func NewStorageService(bucket *blob.Bucket, publicBaseURL string, maxFileSize int64) *StorageService {
	return &StorageService{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		maxFileSize:   maxFileSize,
		httpClient:    http.DefaultClient,
	}
}

func objectPath(fileID string, isPublic bool) string {
	if isPublic {
		return publicPrefix + fileID
	}
	return privatePrefix + fileID
}

// ValidateFileID rejects ids that would escape the bucket prefix or name an
// unusable object.
func ValidateFileID(fileID string) error {
	if fileID == "" || fileID == "." || fileID == ".." {
		return filesDomain.ErrInvalidFileID
	}
	if strings.ContainsAny(fileID, "/\\") {
		return filesDomain.ErrInvalidFileID
	}
	return nil
}

func (s *StorageService) publicURL(path string) string {
	if s.publicBaseURL == "" {
		return ""
	}
	escaped := (&url.URL{Path: path}).EscapedPath()
	return s.publicBaseURL + "/" + strings.TrimPrefix(escaped, "/")
}

// Upload stores the reader's content under the file id. Content larger than
// the configured cap is rejected without being written.
func (s *StorageService) Upload(ctx context.Context, reader io.Reader, fileID string, isPublic bool) (string, int64, error) {
	if err := ValidateFileID(fileID); err != nil {
		return "", 0, err
	}

	data, err := io.ReadAll(io.LimitReader(reader, s.maxFileSize+1))
	if err != nil {
		return "", 0, apperrors.Wrap(err, "failed to read upload")
	}
	if int64(len(data)) > s.maxFileSize {
		return "", 0, filesDomain.ErrFileTooLarge
	}

	path := objectPath(fileID, isPublic)
	if err := s.bucket.WriteAll(ctx, path, data, nil); err != nil {
		return "", 0, apperrors.Wrap(err, "failed to write object")
	}
	return path, int64(len(data)), nil
}

// UploadFromURL fetches a remote resource and stores it under the file id.
// The declared content length and the actual body are both checked against
// the size cap.
func (s *StorageService) UploadFromURL(ctx context.Context, rawURL, fileID string, isPublic bool) (string, int64, error) {
	if err := ValidateFileID(fileID); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid source url")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, apperrors.Wrapf(apperrors.ErrUpstream, "failed to fetch %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, apperrors.Wrapf(apperrors.ErrUpstream, "fetching %s returned status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > s.maxFileSize {
		return "", 0, filesDomain.ErrFileTooLarge
	}

	return s.Upload(ctx, resp.Body, fileID, isPublic)
}

// List returns the bucket's files. A nil filter lists both prefixes,
// otherwise only the public or private one.
func (s *StorageService) List(ctx context.Context, isPublic *bool) ([]filesDomain.FileInfo, error) {
	prefixes := []string{privatePrefix, publicPrefix}
	if isPublic != nil {
		if *isPublic {
			prefixes = []string{publicPrefix}
		} else {
			prefixes = []string{privatePrefix}
		}
	}

	files := make([]filesDomain.FileInfo, 0)
	for _, prefix := range prefixes {
		iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
		for {
			obj, err := iter.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to list objects")
			}
			if obj.Key == prefix || obj.IsDir {
				continue
			}

			info := filesDomain.FileInfo{
				FileID:     strings.TrimPrefix(obj.Key, prefix),
				ObjectPath: obj.Key,
				Size:       obj.Size,
				IsPublic:   prefix == publicPrefix,
			}
			if info.IsPublic {
				info.PublicURL = s.publicURL(obj.Key)
			}
			files = append(files, info)
		}
	}
	return files, nil
}

// Download returns the object's content.
func (s *StorageService) Download(ctx context.Context, fileID string, isPublic bool) ([]byte, error) {
	if err := ValidateFileID(fileID); err != nil {
		return nil, err
	}

	data, err := s.bucket.ReadAll(ctx, objectPath(fileID, isPublic))
	if err != nil {
		return nil, mapBucketError(err, fileID)
	}
	return data, nil
}

// GetAttributes returns the stored metadata of an object.
func (s *StorageService) GetAttributes(ctx context.Context, fileID string, isPublic bool) (filesDomain.FileAttributes, error) {
	if err := ValidateFileID(fileID); err != nil {
		return filesDomain.FileAttributes{}, err
	}

	path := objectPath(fileID, isPublic)
	attrs, err := s.bucket.Attributes(ctx, path)
	if err != nil {
		return filesDomain.FileAttributes{}, mapBucketError(err, fileID)
	}

	result := filesDomain.FileAttributes{
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		Created:     attrs.CreateTime,
		Updated:     attrs.ModTime,
	}
	if isPublic {
		result.PublicURL = s.publicURL(path)
	}
	return result, nil
}

// Rename moves an object to a new file id within the same prefix.
func (s *StorageService) Rename(ctx context.Context, oldFileID, newFileID string, isPublic bool) (string, error) {
	if err := ValidateFileID(oldFileID); err != nil {
		return "", err
	}
	if err := ValidateFileID(newFileID); err != nil {
		return "", err
	}

	oldPath := objectPath(oldFileID, isPublic)
	newPath := objectPath(newFileID, isPublic)
	if err := s.move(ctx, oldPath, newPath); err != nil {
		return "", mapBucketError(err, oldFileID)
	}
	return newPath, nil
}

// Delete removes an object.
func (s *StorageService) Delete(ctx context.Context, fileID string, isPublic bool) error {
	if err := ValidateFileID(fileID); err != nil {
		return err
	}

	if err := s.bucket.Delete(ctx, objectPath(fileID, isPublic)); err != nil {
		return mapBucketError(err, fileID)
	}
	return nil
}

// ToggleShare moves an object between the public and private prefixes and
// returns its new path and visibility.
func (s *StorageService) ToggleShare(ctx context.Context, fileID string, currentPublic bool) (string, bool, error) {
	if err := ValidateFileID(fileID); err != nil {
		return "", false, err
	}

	newPublic := !currentPublic
	oldPath := objectPath(fileID, currentPublic)
	newPath := objectPath(fileID, newPublic)
	if err := s.move(ctx, oldPath, newPath); err != nil {
		return "", false, mapBucketError(err, fileID)
	}
	return newPath, newPublic, nil
}

// Exists reports whether an object is present.
func (s *StorageService) Exists(ctx context.Context, fileID string, isPublic bool) (bool, error) {
	if err := ValidateFileID(fileID); err != nil {
		return false, err
	}

	exists, err := s.bucket.Exists(ctx, objectPath(fileID, isPublic))
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check object")
	}
	return exists, nil
}

// move copies then deletes. Blob stores have no atomic rename.
func (s *StorageService) move(ctx context.Context, oldPath, newPath string) error {
	if err := s.bucket.Copy(ctx, newPath, oldPath, nil); err != nil {
		return err
	}
	return s.bucket.Delete(ctx, oldPath)
}

func mapBucketError(err error, fileID string) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return apperrors.Wrap(filesDomain.ErrFileNotFound, fmt.Sprintf("file %q", fileID))
	}
	return apperrors.Wrap(err, "bucket operation failed")
}
