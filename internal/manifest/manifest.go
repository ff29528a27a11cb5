// Package manifest records what a generation run produced so that a later
// run can remove pages that are no longer generated.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"path"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v3"

	"git.home.luguber.info/inful/apidocs/internal/storage"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Manifest is the record of one generation run.
type Manifest struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Version   string             `json:"version"`
	Status    string             `json:"status"`
	Duration  int64              `json:"duration_ms"`
	Surfaces  map[string]Surface `json:"surfaces"`
}

// Surface lists the files generated for one API surface. Paths are relative
// to Output.
type Surface struct {
	Source  string   `json:"source"`
	Output  string   `json:"output"`
	Pages   []string `json:"pages"`
	Folders []string `json:"folders,omitempty"`
	Skipped int      `json:"skipped"`
}

// New starts a manifest for a run of the given tool version.
func New(version string, now time.Time) *Manifest {
	return &Manifest{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
		Version:   version,
		Surfaces:  map[string]Surface{},
	}
}

// Record stores the surface result, sorting its lists.
func (m *Manifest) Record(name string, s Surface) {
	s.Pages = sortedUnique(s.Pages)
	s.Folders = sortedUnique(s.Folders)
	m.Surfaces[name] = s
}

// Carry copies surfaces from prev that this run did not touch, so a partial
// run keeps the record of the others.
func (m *Manifest) Carry(prev *Manifest) {
	if prev == nil {
		return
	}
	for name, s := range prev.Surfaces {
		if _, ok := m.Surfaces[name]; !ok {
			m.Surfaces[name] = s
		}
	}
}

// SurfaceNames returns the recorded surface names in sorted order.
func (m *Manifest) SurfaceNames() []string {
	return slices.Sorted(maps.Keys(m.Surfaces))
}

// Finish sets the final status and duration.
func (m *Manifest) Finish(status string, d time.Duration) {
	m.Status = status
	m.Duration = d.Milliseconds()
}

// ToJSON serializes the manifest to JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if m.Surfaces == nil {
		m.Surfaces = map[string]Surface{}
	}
	return &m, nil
}

// Load reads the manifest stored under name. A missing manifest is not an
// error; it yields nil.
func Load(ctx context.Context, store storage.Store, name string) (*Manifest, error) {
	data, err := store.Read(ctx, name)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromJSON(data)
}

// Save writes the manifest under name.
func (m *Manifest) Save(ctx context.Context, store storage.Store, name string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	return store.Write(ctx, name, data)
}

// Stale returns files recorded in prev that cur no longer produces: pages,
// and the folder metadata file of folders that disappeared. Both surfaces
// must share the same output directory, otherwise nothing is stale.
func Stale(prev, cur Surface, metaFile string) []string {
	if prev.Output != cur.Output {
		return nil
	}

	var out []string
	pages := set.From(cur.Pages)
	for _, p := range prev.Pages {
		if !pages.Contains(p) {
			out = append(out, p)
		}
	}
	folders := set.From(cur.Folders)
	for _, f := range prev.Folders {
		if !folders.Contains(f) {
			out = append(out, path.Join(f, metaFile))
		}
	}
	slices.Sort(out)
	return out
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	s := set.From(in)
	out := s.Slice()
	slices.Sort(out)
	return out
}
