package openapi

import "github.com/getkin/kin-openapi/openapi3"

// Operation is one HTTP method bound to one route. The first tag decides the
// output folder.
type Operation struct {
	Route       string
	Method      string
	ID          string
	Summary     string
	Description string
	Tags        []string
	// Raw is the source operation object, rendered verbatim into pages.
	Raw *openapi3.Operation
}

// DisplayName is the human readable name of the operation: its summary, then
// its operation id, then the route.
func (o Operation) DisplayName() string {
	switch {
	case o.Summary != "":
		return o.Summary
	case o.ID != "":
		return o.ID
	default:
		return o.Route
	}
}

// PathItem carries the route-level metadata shared by every method of a route.
type PathItem struct {
	Route       string
	Summary     string
	Description string
}

// Extracted is everything the page generator needs about one operation.
type Extracted struct {
	Operation Operation
	PathItem  PathItem
}
