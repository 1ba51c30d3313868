package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// LocalStore writes blobs under a directory that is served at baseURL.
type LocalStore struct {
	dir      string
	baseURL  string
	basePath string
}

func NewLocalStore(dir, baseURL, basePath string) *LocalStore {
	if dir == "" {
		dir = "./uploads"
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080/uploads"
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), basePath: basePath}
}

// Dir is the directory the store writes to.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(_ context.Context, data []byte, filename string) (Object, error) {
	mime := mimetype.Detect(data)
	key := objectKey(s.basePath, filename, mime)
	path := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Object{}, fmt.Errorf("create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}
	return Object{Key: key, URL: s.baseURL + "/" + key, ContentType: mime.String()}, nil
}

// Delete removes the blob. A missing blob is not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if key == "" || strings.Contains(key, "..") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
