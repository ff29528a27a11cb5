package pages

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/frontmatter"
	"git.home.luguber.info/inful/apidocs/internal/storage"
)

// MetaFile is the folder metadata file read by the docs site navigation.
const MetaFile = "meta.json"

// Status is the outcome of writing one file.
type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
)

// Emitter writes rendered pages to a store, leaving files whose content
// already matches untouched.
type Emitter struct {
	store storage.Store
}

// NewEmitter creates an emitter writing to store.
func NewEmitter(store storage.Store) *Emitter {
	return &Emitter{store: store}
}

// Store returns the underlying store.
func (e *Emitter) Store() storage.Store {
	return e.store
}

// Emit writes page unless the existing file carries the same, still valid
// fingerprint.
func (e *Emitter) Emit(ctx context.Context, page Page) (Status, error) {
	existing, err := e.store.Read(ctx, page.Path)
	switch {
	case err == nil:
		if fp, ok := frontmatter.Verified(existing); ok && fp == page.Fingerprint {
			return StatusUnchanged, nil
		}
	case !storage.IsNotFound(err):
		return "", writeError(err, page.Path)
	}

	if err := e.store.Write(ctx, page.Path, page.Content); err != nil {
		return "", writeError(err, page.Path)
	}
	return StatusWritten, nil
}

// WriteFolderMeta sets the title in folder/meta.json. Other keys of an
// existing file are preserved.
func (e *Emitter) WriteFolderMeta(ctx context.Context, folder, title string) (Status, error) {
	rel := MetaFile
	if folder != "" {
		rel = folder + "/" + MetaFile
	}

	fields := map[string]any{}
	existing, err := e.store.Read(ctx, rel)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(existing, &fields); jerr != nil || fields == nil {
			// Unparsable metadata is replaced.
			fields = map[string]any{}
		}
	case !storage.IsNotFound(err):
		return "", writeError(err, rel)
	}

	fields["title"] = title
	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return "", derrors.InternalError("failed to encode folder metadata").WithCause(err).WithContext("path", rel).Build()
	}
	data = append(data, '\n')

	if bytes.Equal(existing, data) {
		return StatusUnchanged, nil
	}
	if err := e.store.Write(ctx, rel, data); err != nil {
		return "", writeError(err, rel)
	}
	return StatusWritten, nil
}

// Remove deletes a previously generated file. Missing files are not an error.
func (e *Emitter) Remove(ctx context.Context, rel string) error {
	if err := e.store.Remove(ctx, rel); err != nil && !storage.IsNotFound(err) {
		return derrors.FileSystemError("failed to remove stale page").
			WithCause(err).
			WithContext("path", rel).
			Build()
	}
	return nil
}

func writeError(err error, rel string) error {
	return derrors.FileSystemError(fmt.Sprintf("failed to write %s", rel)).
		WithCause(err).
		WithContext("path", rel).
		Build()
}
