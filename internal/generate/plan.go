package generate

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-set/v3"

	"git.home.luguber.info/inful/apidocs/internal/config"
	"git.home.luguber.info/inful/apidocs/internal/foundation"
	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/openapi"
	"git.home.luguber.info/inful/apidocs/internal/pagepath"
	"git.home.luguber.info/inful/apidocs/internal/pages"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

// Skip reasons.
const (
	ReasonNoOperations  = "path item declares no operations"
	ReasonNoData        = "operation could not be extracted"
	ReasonRenderFailure = "page could not be rendered"
)

// Skip is an operation that produced no page.
type Skip struct {
	Ref    openapi.OperationRef
	Reason string
}

func (s Skip) Error() string {
	return s.Ref.String() + ": " + s.Reason
}

// Plan is the result of folding one document's operations: a descriptor for
// every page to write and the operations that were skipped, both in document
// index order.
type Plan struct {
	Surface  string
	SchemaID string
	Pages    []pages.Descriptor
	Skips    []Skip
}

// BuildPlan resolves tag, path and metadata for every operation of doc.
// It never fails; operations without usable data become skips.
func BuildPlan(doc *openapi.Document, s config.SurfaceConfig) *Plan {
	refs := doc.Index()
	results := make([]foundation.Result[pages.Descriptor, Skip], 0, len(refs))
	for _, ref := range refs {
		results = append(results, resolve(doc, ref, s))
	}

	plan := &Plan{Surface: s.Name, SchemaID: doc.ID}
	plan.Pages, plan.Skips = foundation.Partition(results)
	return plan
}

func resolve(doc *openapi.Document, ref openapi.OperationRef, s config.SurfaceConfig) foundation.Result[pages.Descriptor, Skip] {
	if ref.Method == "" {
		return foundation.Err[pages.Descriptor](Skip{Ref: ref, Reason: ReasonNoOperations})
	}
	ex := doc.Extract(ref)
	if ex == nil {
		return foundation.Err[pages.Descriptor](Skip{Ref: ref, Reason: ReasonNoData})
	}

	op := ex.Operation
	tagPath := tagmap.Normalize(tagmap.PrimaryTag(op.Tags), s.Table())
	return foundation.Ok[pages.Descriptor, Skip](pages.Descriptor{
		Path:      pagepath.Derive(tagPath, pagepath.Input{Route: op.Route, Method: op.Method, OperationID: op.ID}, s.Rule()),
		SchemaID:  doc.ID,
		TagPath:   tagPath,
		Operation: op,
		Meta:      pages.ResolveMeta(op, ex.PathItem),
	})
}

// Folders returns every folder that holds a planned page, sorted.
func (p *Plan) Folders() []string {
	var all []string
	for _, d := range p.Pages {
		all = append(all, d.Folders()...)
	}
	if len(all) == 0 {
		return nil
	}
	out := set.From(all).Slice()
	slices.Sort(out)
	return out
}

// CheckCollisions fails when two operations map to the same page path. Every
// colliding pair is reported.
func (p *Plan) CheckCollisions() error {
	seen := make(map[string]openapi.OperationRef, len(p.Pages))
	var errs *multierror.Error
	for _, d := range p.Pages {
		ref := d.Ref()
		if first, ok := seen[d.Path]; ok {
			errs = multierror.Append(errs, fmt.Errorf("%s and %s both map to %s", first, ref, d.Path))
			continue
		}
		seen[d.Path] = ref
	}
	if errs == nil {
		return nil
	}
	return derrors.ValidationError("page path collision").
		WithCause(errs).
		WithContext("surface", p.Surface).
		WithContext("collisions", len(errs.Errors)).
		Build()
}
