package generate

import (
	"time"

	"git.home.luguber.info/inful/apidocs/internal/manifest"
	"git.home.luguber.info/inful/apidocs/internal/metrics"
	"git.home.luguber.info/inful/apidocs/internal/openapi"
)

// Outcome is what happened to one operation.
type Outcome string

const (
	OutcomeEmitted   Outcome = "emitted"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
)

func (o Outcome) metric() metrics.PageResult {
	switch o {
	case OutcomeEmitted:
		return metrics.PageEmitted
	case OutcomeUnchanged:
		return metrics.PageUnchanged
	default:
		return metrics.PageSkipped
	}
}

// PageResult is the outcome for one operation. Path is empty for skips.
type PageResult struct {
	Ref     openapi.OperationRef
	Path    string
	Outcome Outcome
	Reason  string
}

// SurfaceResult collects the per-operation outcomes of one surface.
type SurfaceResult struct {
	Name     string
	Title    string
	Source   string
	Output   string
	Pages    []PageResult
	Folders  []string
	Duration time.Duration
}

// Count returns how many operations ended with outcome o.
func (r *SurfaceResult) Count(o Outcome) int {
	n := 0
	for _, p := range r.Pages {
		if p.Outcome == o {
			n++
		}
	}
	return n
}

// Paths lists the page files the surface now consists of.
func (r *SurfaceResult) Paths() []string {
	var out []string
	for _, p := range r.Pages {
		if p.Outcome != OutcomeSkipped {
			out = append(out, p.Path)
		}
	}
	return out
}

func (r *SurfaceResult) manifestEntry() manifest.Surface {
	return manifest.Surface{
		Source:  r.Source,
		Output:  r.Output,
		Pages:   r.Paths(),
		Folders: r.Folders,
		Skipped: r.Count(OutcomeSkipped),
	}
}

// Report is the outcome of a run over one or more surfaces.
type Report struct {
	Surfaces []*SurfaceResult
	// Pruned lists removed files, relative to their surface output directory,
	// prefixed with the surface name.
	Pruned   []string
	Duration time.Duration
}

// Total sums outcome o over all surfaces.
func (r *Report) Total(o Outcome) int {
	n := 0
	for _, s := range r.Surfaces {
		n += s.Count(o)
	}
	return n
}
