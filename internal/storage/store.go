// Package storage reads and writes generated files below an output root.
//
// Paths are slash-separated and relative to the root; anything that would
// resolve outside the root is rejected.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// Store persists generated files.
type Store interface {
	// Read returns the content at rel. Missing files yield ErrNotFound.
	Read(ctx context.Context, rel string) ([]byte, error)

	// Write replaces the content at rel, creating parent directories.
	Write(ctx context.Context, rel string, data []byte) error

	// Remove deletes rel. Missing files yield ErrNotFound.
	Remove(ctx context.Context, rel string) error

	// Root describes where the store writes, for logs.
	Root() string
}

// ErrNotFound is returned when a file doesn't exist.
type ErrNotFound struct {
	Path string
}

func (e ErrNotFound) Error() string {
	return "file not found: " + e.Path
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ErrUnsafePath is returned for paths that are absolute or leave the root.
var ErrUnsafePath = errors.New("path escapes output root")

// cleanRel validates rel and converts it to the host separator.
func cleanRel(rel string) (string, error) {
	p := filepath.FromSlash(rel)
	if p == "" || !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return filepath.Clean(p), nil
}
