package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage keeps uploaded media. Keys are slash separated relative paths
// such as "recipes/images/<uuid>.png".
type Storage interface {
	Save(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Local stores files under Root and serves them from BaseURL (see router /media).
type Local struct {
	Root    string
	BaseURL string
}

func NewLocal(root, baseURL string) *Local {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Local{Root: root, BaseURL: baseURL}
}

func (l *Local) Save(_ context.Context, key, _ string, data []byte) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

func (l *Local) URL(key string) string {
	return l.BaseURL + strings.TrimPrefix(key, "/")
}

// path resolves key inside Root; keys escaping Root are rejected.
func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(l.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
