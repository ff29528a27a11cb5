package pages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"git.home.luguber.info/inful/apidocs/internal/frontmatter"
	"git.home.luguber.info/inful/apidocs/internal/markdown"
)

const generatedComment = "{/* This file was generated by apidocs. Do not edit this file directly. Any changes should be made by running the generation command again. */}"

// Page is a rendered page ready to be written.
type Page struct {
	Path        string
	Content     []byte
	Fingerprint string
}

type apiItem struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Render produces the MDX page for d: sorted YAML frontmatter carrying the
// metadata and the source operation, followed by the description and the
// APIPage element that renders the operation.
func Render(d Descriptor) (Page, error) {
	openapiFields := map[string]any{
		"type":     "operation",
		"schemaId": d.SchemaID,
		"method":   strings.ToUpper(d.Operation.Method),
		"route":    d.Operation.Route,
	}
	if d.Operation.Raw != nil {
		raw, err := rawOperation(d.Operation.Raw)
		if err != nil {
			return Page{}, fmt.Errorf("encode operation %s: %w", d.Ref(), err)
		}
		openapiFields["operation"] = raw
	}

	fields := map[string]any{
		"title":    d.Meta.Title,
		"full":     true,
		"_openapi": openapiFields,
	}
	if d.Meta.Description != "" {
		fields["description"] = d.Meta.Description
	}

	body, err := renderBody(d)
	if err != nil {
		return Page{}, err
	}

	fp, err := frontmatter.Stamp(fields, body)
	if err != nil {
		return Page{}, fmt.Errorf("fingerprint %s: %w", d.Path, err)
	}
	content, err := frontmatter.Compose(fields, body)
	if err != nil {
		return Page{}, fmt.Errorf("frontmatter %s: %w", d.Path, err)
	}
	return Page{Path: d.Path, Content: content, Fingerprint: fp}, nil
}

func renderBody(d Descriptor) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(generatedComment)
	b.WriteString("\n\n")

	if desc := strings.TrimSpace(d.Meta.Description); desc != "" {
		escaped, err := markdown.EscapeMDX([]byte(desc))
		if err != nil {
			return nil, fmt.Errorf("escape description of %s: %w", d.Ref(), err)
		}
		b.Write(escaped)
		b.WriteString("\n\n")
	}

	document, err := jsxValue(d.SchemaID)
	if err != nil {
		return nil, err
	}
	operations, err := jsxValue([]apiItem{{Path: d.Operation.Route, Method: strings.ToLower(d.Operation.Method)}})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&b, "<APIPage document={%s} operations={%s} webhooks={[]} hasHead={false} />\n", document, operations)
	return b.Bytes(), nil
}

// jsxValue encodes v as a JavaScript literal for a JSX attribute expression.
func jsxValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// rawOperation converts the source operation to plain maps for the frontmatter.
func rawOperation(op *openapi3.Operation) (map[string]any, error) {
	data, err := json.Marshal(op)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
