// Package frontmatter reads and writes the YAML header of generated pages.
//
// Pages always use LF line endings and "---" delimiters. Encoding sorts keys
// at every level so that identical fields produce identical bytes.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---\n"

// ErrMissingClosingDelimiter indicates the document starts a frontmatter block
// that is never closed.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates the frontmatter block from the body. had is false when the
// content has no frontmatter, in which case body is the whole input.
func Split(content []byte) (fm, body []byte, had bool, err error) {
	if !bytes.HasPrefix(content, []byte(delimiter)) {
		return nil, content, false, nil
	}

	rest := content[len(delimiter):]
	if bytes.HasPrefix(rest, []byte(delimiter)) {
		return []byte{}, rest[len(delimiter):], true, nil
	}

	idx := bytes.Index(rest, []byte("\n"+delimiter))
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+1], rest[idx+1+len(delimiter):], true, nil
}

// Join wraps fm in delimiters and prepends it to body.
func Join(fm, body []byte) []byte {
	out := make([]byte, 0, 2*len(delimiter)+len(fm)+len(body))
	out = append(out, delimiter...)
	out = append(out, fm...)
	if len(fm) > 0 && fm[len(fm)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, delimiter...)
	return append(out, body...)
}

// Parse decodes a frontmatter block without delimiters.
func Parse(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Compose encodes fields and joins them with body into a complete page.
func Compose(fields map[string]any, body []byte) ([]byte, error) {
	fm, err := Encode(fields)
	if err != nil {
		return nil, err
	}
	return Join(fm, body), nil
}

// Read splits content and parses its frontmatter.
func Read(content []byte) (map[string]any, []byte, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	if !had {
		return map[string]any{}, body, nil
	}
	fields, err := Parse(fm)
	if err != nil {
		return nil, nil, err
	}
	return fields, body, nil
}
