// Package storage provides the object storage sinks run reports can be
// published to.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrUploadFailed   = errors.New("upload failed")
)

// ObjectStorage abstracts the narrow surface the report sink needs.
// Implementations cover S3 and the local filesystem.
type ObjectStorage interface {
	// Upload writes data to objectPath.
	Upload(ctx context.Context, objectPath string, data []byte) error

	// Download reads an object back. A missing object reports
	// ErrObjectNotFound.
	Download(ctx context.Context, objectPath string) ([]byte, error)

	// Exists checks whether an object exists.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}
