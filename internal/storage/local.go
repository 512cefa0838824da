package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps files under a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &Error{Op: "init", Key: root, Err: err}
	}
	return &LocalStore{root: root}, nil
}

// Root returns the directory files are stored in.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) path(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Save writes r to key, replacing any existing file.
func (s *LocalStore) Save(_ context.Context, key string, r io.Reader, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}

	f, err := os.Create(p)
	if err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return &Error{Op: "save", Key: key, Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Op: "save", Key: key, Err: err}
	}
	return nil
}

// Open returns the file at key.
func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, &Error{Op: "open", Key: key, Err: err}
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &Error{Op: "open", Key: key, Err: ErrNotFound}
	}
	if err != nil {
		return nil, &Error{Op: "open", Key: key, Err: err}
	}
	return f, nil
}

// Delete removes the file at key.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: "delete", Key: key, Err: ErrNotFound}
	}
	if err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}
