package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements ObjectStorage on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a local filesystem sink rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Upload writes data to a file under the base path.
func (l *LocalStorage) Upload(ctx context.Context, objectPath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	destPath := l.fullPath(objectPath)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return nil
}

// Download reads the object file back.
func (l *LocalStorage) Download(ctx context.Context, objectPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.fullPath(objectPath))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, objectPath)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Exists checks whether the object file exists.
func (l *LocalStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(l.fullPath(objectPath))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListObjects returns every object path under the prefix.
func (l *LocalStorage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var objects []string
	err := filepath.WalkDir(l.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(l.basePath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			objects = append(objects, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

func (l *LocalStorage) fullPath(objectPath string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(objectPath))
}
