package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("audio not found")

// Store keeps uploaded tracks on local disk, one file per session.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("audio store root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio store root: %w", err)
	}
	return &Store{root: root}, nil
}

func MP3(id string) string {
	return id + ".mp3"
}

func (s *Store) Path(id string) string {
	return filepath.Join(s.root, MP3(filepath.Base(id)))
}

// Save copies r to the session's file and returns the number of bytes written.
func (s *Store) Save(ctx context.Context, id string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dst := s.Path(id)
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write audio %q: %w", dst, err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("failed to move audio into place %q: %w", dst, err)
	}

	return n, nil
}

func (s *Store) Open(id string) (*os.File, error) {
	f, err := os.Open(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open audio: %w", err)
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := os.Remove(s.Path(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete audio: %w", err)
	}
	return nil
}
