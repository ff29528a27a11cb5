package openapi

import (
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// methodOrder follows the field order of an OpenAPI path item.
var methodOrder = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
	http.MethodConnect,
}

// Document is a parsed OpenAPI document together with the location it was
// loaded from. The location doubles as the schema id pages refer back to.
type Document struct {
	ID   string
	Spec *openapi3.T
	// Problems holds structural validation findings. They never fail a load.
	Problems error
}

// OperationRef addresses one method of one route.
type OperationRef struct {
	Route  string
	Method string
}

func (r OperationRef) String() string {
	if r.Method == "" {
		return r.Route
	}
	return r.Method + " " + r.Route
}

// Index lists every route/method pair of the document: routes in lexical
// order, methods in path-item field order. A route whose path item is null or
// declares no operation is listed once with an empty method so that callers
// can report it as skipped.
func (d *Document) Index() []OperationRef {
	if d == nil || d.Spec == nil || d.Spec.Paths == nil {
		return nil
	}

	items := d.Spec.Paths.Map()
	refs := make([]OperationRef, 0, len(items))
	for _, route := range slices.Sorted(maps.Keys(items)) {
		item := items[route]
		if item == nil {
			refs = append(refs, OperationRef{Route: route})
			continue
		}
		ops := item.Operations()
		if len(ops) == 0 {
			refs = append(refs, OperationRef{Route: route})
			continue
		}
		for _, method := range sortMethods(ops) {
			refs = append(refs, OperationRef{Route: route, Method: method})
		}
	}
	return refs
}

// Extract returns the operation data behind ref, or nil when there is none.
func (d *Document) Extract(ref OperationRef) *Extracted {
	if d == nil || d.Spec == nil || d.Spec.Paths == nil || ref.Method == "" {
		return nil
	}
	item := d.Spec.Paths.Value(ref.Route)
	if item == nil {
		return nil
	}
	op := item.Operations()[strings.ToUpper(ref.Method)]
	if op == nil {
		return nil
	}

	return &Extracted{
		Operation: Operation{
			Route:       ref.Route,
			Method:      strings.ToUpper(ref.Method),
			ID:          op.OperationID,
			Summary:     op.Summary,
			Description: op.Description,
			Tags:        slices.Clone(op.Tags),
			Raw:         op,
		},
		PathItem: PathItem{
			Route:       ref.Route,
			Summary:     item.Summary,
			Description: item.Description,
		},
	}
}

// Title returns the document's info title, if any.
func (d *Document) Title() string {
	if d == nil || d.Spec == nil || d.Spec.Info == nil {
		return ""
	}
	return d.Spec.Info.Title
}

func sortMethods(ops map[string]*openapi3.Operation) []string {
	out := make([]string, 0, len(ops))
	for _, m := range methodOrder {
		if _, ok := ops[m]; ok {
			out = append(out, m)
		}
	}
	var extra []string
	for m := range ops {
		if !slices.Contains(methodOrder, m) {
			extra = append(extra, m)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
