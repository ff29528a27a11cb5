// Package markdown prepares OpenAPI description text for MDX pages.
//
// OpenAPI descriptions are CommonMark, but MDX reads "{" as the start of an
// expression and "<" as the start of JSX. EscapeMDX parses the text with
// goldmark and backslash-escapes those characters wherever MDX would see
// them, leaving code untouched.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func isMDXSpecial(c byte) bool {
	return c == '{' || c == '}' || c == '<'
}

// EscapeMDX returns src with MDX-significant characters escaped outside of
// code spans and fenced code. Characters that are already escaped are kept.
// Indented code blocks are escaped too: MDX does not support them and reads
// their content as a paragraph.
func EscapeMDX(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return src, nil
	}

	root := goldmark.New().Parser().Parse(text.NewReader(src))

	marked := make(map[int]struct{})
	var edits []Edit
	mark := func(seg text.Segment) {
		stop := min(seg.Stop, len(src))
		for i := max(seg.Start, 0); i < stop; i++ {
			if !isMDXSpecial(src[i]) || escaped(src, i) {
				continue
			}
			if _, ok := marked[i]; ok {
				continue
			}
			marked[i] = struct{}{}
			edits = append(edits, Edit{Start: i, End: i, Replacement: []byte{'\\'}})
		}
	}
	markLines := func(lines *text.Segments) {
		for i := 0; i < lines.Len(); i++ {
			mark(lines.At(i))
		}
	}

	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.CodeSpan, *gmast.FencedCodeBlock:
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeBlock:
			markLines(node.Lines())
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			mark(node.Segment)
		case *gmast.RawHTML:
			markLines(node.Segments)
		case *gmast.HTMLBlock:
			markLines(node.Lines())
			if node.HasClosure() {
				mark(node.ClosureLine)
			}
		case *gmast.AutoLink:
			// "<https://...>" is not valid MDX. Escaping "<" turns the link into
			// text, so braces in the URL need escaping as well.
			if start := autoLinkStart(src, node); start >= 0 {
				end := len(src)
				if i := bytes.IndexByte(src[start:], '>'); i >= 0 {
					end = start + i
				}
				mark(text.NewSegment(start, end))
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return ApplyEdits(src, edits)
}

// escaped reports whether src[i] is preceded by an odd number of backslashes.
func escaped(src []byte, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && src[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// autoLinkStart locates the "<" that opens an autolink. goldmark does not
// expose the node's own segment, so it is taken from where the preceding text
// ends, or where the enclosing block starts. -1 means unknown.
func autoLinkStart(src []byte, node *gmast.AutoLink) int {
	start := -1
	switch prev := node.PreviousSibling().(type) {
	case *gmast.Text:
		start = prev.Segment.Stop
	case nil:
		if parent := node.Parent(); parent != nil && parent.Type() == gmast.TypeBlock {
			if lines := parent.Lines(); lines != nil && lines.Len() > 0 {
				start = lines.At(0).Start
			}
		}
	}
	if start < 0 || start >= len(src) || src[start] != '<' {
		return -1
	}
	return start
}
