// Package storage persists uploaded files under the configured upload root.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// ProfileDir holds profile images, relative to the upload root.
	ProfileDir = "profiles"
	// PredictionDir holds prediction source images, relative to the upload root.
	PredictionDir = "predictions"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store writes uploads under a root directory. File names are prefixed with
// a fresh random identifier so concurrent uploads of the same file never
// collide, and the original name is sanitized against path traversal.
type Store struct {
	root string
}

// NewStore creates the upload root and its subdirectories.
func NewStore(root string) (*Store, error) {
	for _, sub := range []string{ProfileDir, PredictionDir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Store{root: root}, nil
}

// Root returns the upload root directory.
func (s *Store) Root() string {
	return s.root
}

// Save persists the uploaded file into the given subdirectory and returns
// its path relative to the upload root.
func (s *Store) Save(file *multipart.FileHeader, subdir string) (string, error) {
	name := fmt.Sprintf("%s_%s", randomID(), SanitizeFilename(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, subdir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path.Join(subdir, name), nil
}

// Abs resolves a stored relative path to an absolute filesystem path.
func (s *Store) Abs(relPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(relPath))
}

// Remove deletes a stored file, ignoring files that are already gone.
func (s *Store) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	if err := os.Remove(s.Abs(relPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SanitizeFilename strips path separators and unsafe characters from an
// uploaded file name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return name
}

func randomID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
