// Package pagepath derives the relative output path of an operation page.
package pagepath

import (
	"strings"

	"git.home.luguber.info/inful/apidocs/internal/foundation/normalization"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

// Extension of every generated page.
const Extension = ".mdx"

// Naming selects how the file name of a page is built.
type Naming string

const (
	// NamingOperationID uses the operation id alone when one is present and
	// falls back to "{route}-{method}".
	NamingOperationID Naming = "operation-id"
	// NamingRoute always appends the method: "{operation id or route}-{method}".
	NamingRoute Naming = "route"
)

var namings = normalization.NewEnum("file naming", NamingOperationID, map[string]Naming{
	"operation-id": NamingOperationID,
	"operationid":  NamingOperationID,
	"route":        NamingRoute,
})

// ParseNaming case-folds s into a Naming. Blank input selects the default.
func ParseNaming(s string) (Naming, error) {
	return namings.Parse(s)
}

// Rule is the per-surface configuration of the deriver.
type Rule struct {
	Naming    Naming
	APIPrefix string
}

// Input is the part of an operation that decides its file name.
type Input struct {
	Route       string
	Method      string
	OperationID string
}

// RouteIdentifier builds an identifier from route and prefix alone: the prefix
// and surrounding slashes are removed, remaining slashes become hyphens and
// path parameter braces are dropped. An empty result becomes "index".
func RouteIdentifier(route, apiPrefix string) string {
	id := "/" + strings.Trim(route, "/")
	if prefix := strings.Trim(apiPrefix, "/"); prefix != "" {
		prefix = "/" + prefix
		switch {
		case id == prefix:
			id = ""
		case strings.HasPrefix(id, prefix+"/"):
			id = id[len(prefix)+1:]
		}
	}
	id = strings.Trim(id, "/")
	id = strings.ReplaceAll(id, "/", "-")
	id = strings.NewReplacer("{", "", "}", "").Replace(id)
	id = collapseHyphens(id)
	if id == "" {
		return "index"
	}
	return id
}

// Identifier returns the file name of an operation without extension.
func Identifier(in Input, rule Rule) string {
	method := strings.ToLower(in.Method)
	switch rule.Naming {
	case NamingRoute:
		base := in.OperationID
		if base == "" {
			base = RouteIdentifier(in.Route, rule.APIPrefix)
		}
		return base + "-" + method
	default:
		if in.OperationID != "" {
			return in.OperationID
		}
		return RouteIdentifier(in.Route, rule.APIPrefix) + "-" + method
	}
}

// Derive joins the normalized tag path with the identifier. The identifier is
// kept verbatim; a "/" inside it opens sub-folders. Only "." and ".." segments
// and empty folder segments are changed, so the path stays inside the output
// directory.
func Derive(tagPath string, in Input, rule Rule) string {
	var segs []string
	for _, seg := range strings.Split(tagPath, tagmap.Separator) {
		if seg = sanitizeSegment(seg); seg != "" {
			segs = append(segs, seg)
		}
	}

	id := strings.Split(Identifier(in, rule), "/")
	for i, seg := range id {
		last := i == len(id)-1
		if seg == "" && !last {
			continue
		}
		if seg == "." || seg == ".." {
			seg = strings.Repeat("_", len(seg))
		}
		if last {
			seg += Extension
		}
		segs = append(segs, seg)
	}
	return strings.Join(segs, "/")
}

// sanitizeSegment keeps a single tag segment inside its parent directory.
func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(s)
	switch s {
	case ".", "..":
		return strings.Repeat("_", len(s))
	}
	return s
}

func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == '-' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}
