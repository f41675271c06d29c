// Package storage uploads user images to an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUploadFailed wraps every provider or transport failure. Callers should
// treat it as opaque; nothing is retried and partial uploads are not cleaned up.
var ErrUploadFailed = errors.New("storage: upload failed")

// File is an image stream handed over by the HTTP layer.
type File struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

// Uploader streams a file to object storage and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
}
