// Package store persists the last source text loaded for typing, so the next session starts from it.
package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bbtyping/go-typingtips/internal/files"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultContent is returned by Read when nothing was saved yet.
const DefaultContent = "忽如一夜春风来"

// Store keeps the last-used source text in a single file.
type Store struct {
	path string
}

// New returns a Store backed by the file at path. The file and its directory are created on first Write.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the store file under the user configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "typingtips", "content.txt")
}

// Path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Read returns the saved text, or DefaultContent if none was saved or the saved text is empty.
func (s *Store) Read() (string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultContent, nil
		}
		return "", errors.Wrapf(err, "failed to read saved content from %q", s.path)
	}
	if len(content) == 0 {
		return DefaultContent, nil
	}
	return string(content), nil
}

// Write saves text, replacing the previous one atomically. Concurrent writers are serialized by a lock
// file next to the store file.
func (s *Store) Write(ctx context.Context, text string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), files.DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for %q", s.path)
	}
	var mainErr error
	errLock := files.ExecOnFileLock(ctx, s.path+".lock", func() {
		mainErr = files.WriteAtomic(s.path, []byte(text))
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while saving content to %q", s.path)
	}
	klog.V(1).Infof("saved %d characters of content to %q", len([]rune(text)), s.path)
	return nil
}
