package imagestore

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"time"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads"

// Config holds image store settings.
type Config struct {
	Dir string // directory holding the uploaded files
}

// Store persists uploaded profile images on disk. Each file gets a
// unique timestamp-based name, so a reference never collides with an
// earlier upload.
type Store struct {
	dir string
}

// New creates a Store rooted at cfg.Dir, creating the directory if needed.
func New(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("image store directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", cfg.Dir, err)
	}
	return &Store{dir: cfg.Dir}, nil
}

// Dir returns the directory holding the stored files.
func (s *Store) Dir() string {
	return s.dir
}

// Save persists an uploaded file under a unique name and returns that
// name. The name is a nanosecond timestamp plus the original extension.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write image file %s: %w", name, err)
	}
	return name, nil
}

// Delete removes a stored file by name. Removal is best-effort: a
// missing file is not an error, and other failures are only logged.
func (s *Store) Delete(name string) {
	if name == "" {
		return
	}
	// filepath.Base guards against references escaping the upload dir.
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to delete image %s: %v", name, err)
	}
}

// Exists reports whether a stored file with the given name is present.
func (s *Store) Exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(name)))
	return err == nil
}

// Resolve returns the public URL path for a stored file name.
func (s *Store) Resolve(name string) string {
	return path.Join(PublicPrefix, filepath.Base(name))
}
