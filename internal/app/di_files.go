package app

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"

	apperrors "github.com/allisson/chatapi/internal/errors"
	filesHTTP "github.com/allisson/chatapi/internal/files/http"
	filesService "github.com/allisson/chatapi/internal/files/service"
)

// BlobBucket returns the blob storage bucket opened from the configured URL.
func (c *Container) BlobBucket(ctx context.Context) (*blob.Bucket, error) {
	var err error
	c.blobBucketInit.Do(func() {
		c.blobBucket, err = c.initBlobBucket(ctx)
		if err != nil {
			c.initErrors["blobBucket"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobBucket"]; exists {
		return nil, storedErr
	}
	return c.blobBucket, nil
}

// StorageService returns the file storage service.
func (c *Container) StorageService(ctx context.Context) (*filesService.StorageService, error) {
	var err error
	c.storageServiceInit.Do(func() {
		c.storageService, err = c.initStorageService(ctx)
		if err != nil {
			c.initErrors["storageService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storageService"]; exists {
		return nil, storedErr
	}
	return c.storageService, nil
}

// FileHandler returns the files HTTP handler.
func (c *Container) FileHandler(ctx context.Context) (*filesHTTP.FileHandler, error) {
	var err error
	c.fileHandlerInit.Do(func() {
		c.fileHandler, err = c.initFileHandler(ctx)
		if err != nil {
			c.initErrors["fileHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fileHandler"]; exists {
		return nil, storedErr
	}
	return c.fileHandler, nil
}

// initBlobBucket opens the bucket from the configured gocloud URL. Local
// file:// buckets and gs:// buckets are supported through the imported
// drivers; mem:// is available for testing.
func (c *Container) initBlobBucket(ctx context.Context) (*blob.Bucket, error) {
	if c.config.BlobBucketURL == "" {
		return nil, apperrors.New("BLOB_BUCKET_URL must be set")
	}

	bucket, err := blob.OpenBucket(ctx, c.config.BlobBucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob bucket: %w", err)
	}
	return bucket, nil
}

// initStorageService creates the file storage service.
func (c *Container) initStorageService(ctx context.Context) (*filesService.StorageService, error) {
	bucket, err := c.BlobBucket(ctx)
	if err != nil {
		return nil, err
	}

	return filesService.NewStorageService(
		bucket,
		c.config.BlobPublicBaseURL,
		c.config.BlobMaxFileSize,
	), nil
}

// initFileHandler creates the files handler.
func (c *Container) initFileHandler(ctx context.Context) (*filesHTTP.FileHandler, error) {
	storage, err := c.StorageService(ctx)
	if err != nil {
		return nil, err
	}

	return filesHTTP.NewFileHandler(storage, c.Logger()), nil
}
