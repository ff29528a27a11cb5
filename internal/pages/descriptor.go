// Package pages turns extracted operations into MDX pages and writes them.
package pages

import (
	"strings"

	"git.home.luguber.info/inful/apidocs/internal/openapi"
)

// Meta is the title and description shown for a page.
type Meta struct {
	Title       string
	Description string
}

// ResolveMeta picks page metadata. The title is the operation's display name.
// The operation's own description always wins over the path item's; when
// neither has one the description stays empty.
func ResolveMeta(op openapi.Operation, item openapi.PathItem) Meta {
	desc := op.Description
	if desc == "" {
		desc = item.Description
	}
	return Meta{Title: op.DisplayName(), Description: desc}
}

// Descriptor is everything needed to render one operation page.
type Descriptor struct {
	// Path is slash-separated and relative to the surface output directory.
	Path string
	// SchemaID refers back to the document the operation came from.
	SchemaID  string
	TagPath   string
	Operation openapi.Operation
	Meta      Meta
}

// Ref returns the route/method pair the page documents.
func (d Descriptor) Ref() openapi.OperationRef {
	return openapi.OperationRef{Route: d.Operation.Route, Method: d.Operation.Method}
}

// Folders lists every folder the page lives in, outermost first:
// "a/b/page.mdx" yields "a" and "a/b".
func (d Descriptor) Folders() []string {
	parts := strings.Split(d.Path, "/")
	if len(parts) < 2 {
		return nil
	}
	out := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		out = append(out, strings.Join(parts[:i], "/"))
	}
	return out
}
