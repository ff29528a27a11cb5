package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FSStore writes files below a directory on disk. Writes go through a
// temporary file and a rename so readers never see partial pages.
type FSStore struct {
	root string
	mu   sync.Mutex
}

// NewFSStore creates a store rooted at root. The directory is created lazily.
func NewFSStore(root string) *FSStore {
	return &FSStore{root: filepath.Clean(root)}
}

// Root returns the directory the store writes below.
func (s *FSStore) Root() string {
	return s.root
}

// Read returns the content of rel.
func (s *FSStore) Read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path validated by cleanRel
	data, err := os.ReadFile(filepath.Join(s.root, p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound{Path: rel}
		}
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Write stores data at rel.
func (s *FSStore) Write(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := cleanRel(rel)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := filepath.Join(s.root, p)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file for %s: %w", rel, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename %s: %w", rel, err)
	}
	return nil
}

// Remove deletes rel and any parent directories left empty, up to the root.
func (s *FSStore) Remove(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := cleanRel(rel)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := filepath.Join(s.root, p)
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound{Path: rel}
		}
		return fmt.Errorf("remove %s: %w", rel, err)
	}

	for dir := filepath.Dir(target); dir != s.root && len(dir) > len(s.root); dir = filepath.Dir(dir) {
		// Fails on non-empty directories, which ends the walk.
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}
