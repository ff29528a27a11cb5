package markdown

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Edit replaces source[Start:End] with Replacement. Start == End inserts.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits expressed as offsets into the
// original source. Insertions at the same offset are rejected.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})

	size := len(source)
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < e.Start:
			return nil, fmt.Errorf("invalid edit at %d: bad range", e.Start)
		case e.End > len(source):
			return nil, fmt.Errorf("invalid edit at %d: range out of bounds", e.Start)
		case i > 0 && (e.Start < sorted[i-1].End || e.Start == sorted[i-1].Start):
			return nil, errors.New("invalid edits: overlapping ranges")
		}
		size += len(e.Replacement) - (e.End - e.Start)
	}

	out := make([]byte, 0, size)
	last := 0
	for _, e := range sorted {
		out = append(out, source[last:e.Start]...)
		out = append(out, e.Replacement...)
		last = e.End
	}
	return append(out, source[last:]...), nil
}
