// Package watch regenerates API surfaces when their local specification
// files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/apidocs/internal/config"
	"git.home.luguber.info/inful/apidocs/internal/logfields"
	"git.home.luguber.info/inful/apidocs/internal/openapi"
)

// DefaultQuietWindow is how long a file must stay unchanged before its
// surface is regenerated.
const DefaultQuietWindow = 500 * time.Millisecond

// RegenerateFunc regenerates one surface.
type RegenerateFunc func(ctx context.Context, surface string) error

// Target ties a surface to the local file it is generated from.
type Target struct {
	Surface string
	Path    string
}

// Targets returns a target for every surface with a local source and the
// names of surfaces whose source is a URL.
func Targets(surfaces []config.SurfaceConfig) (targets []Target, remote []string) {
	for _, s := range surfaces {
		p, ok := openapi.LocalPath(s.Source)
		if !ok {
			remote = append(remote, s.Name)
			continue
		}
		targets = append(targets, Target{Surface: s.Name, Path: p})
	}
	return targets, remote
}

// Watcher watches the directories holding target files. Events for one file
// are coalesced until the quiet window passes, then every affected surface is
// regenerated in name order, one at a time.
type Watcher struct {
	files      map[string][]string // absolute path -> surfaces
	quiet      time.Duration
	regenerate RegenerateFunc
	logger     *slog.Logger
	ready      chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithQuietWindow sets the debounce window.
func WithQuietWindow(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.quiet = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for targets.
func New(targets []Target, regenerate RegenerateFunc, options ...Option) (*Watcher, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no local specification files to watch")
	}
	w := &Watcher{
		files:      make(map[string][]string, len(targets)),
		quiet:      DefaultQuietWindow,
		regenerate: regenerate,
		logger:     slog.Default(),
		ready:      make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	for _, t := range targets {
		abs, err := filepath.Abs(t.Path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", t.Path, err)
		}
		if !slices.Contains(w.files[abs], t.Surface) {
			w.files[abs] = append(w.files[abs], t.Surface)
		}
	}
	return w, nil
}

// Ready is closed once Run watches every directory.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. Regeneration failures are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	// Editors often replace files, so the directory is watched rather than
	// the file itself.
	dirs := map[string]bool{}
	for file := range w.files {
		dirs[filepath.Dir(file)] = true
	}
	for _, dir := range slices.Sorted(maps.Keys(dirs)) {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	w.logger.Info("Watching specification files", logfields.Count(len(w.files)))
	close(w.ready)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var timerC <-chan time.Time
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			surfaces, watched := w.files[filepath.Clean(event.Name)]
			if !watched || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Specification change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			for _, s := range surfaces {
				pending[s] = true
			}
			timer.Reset(w.quiet)
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))

		case <-timerC:
			timerC = nil
			for _, s := range slices.Sorted(maps.Keys(pending)) {
				delete(pending, s)
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Info("Regenerating", logfields.Surface(s))
				if err := w.regenerate(ctx, s); err != nil {
					w.logger.Error("Regeneration failed", logfields.Surface(s), logfields.Error(err))
				}
			}
		}
	}
}
