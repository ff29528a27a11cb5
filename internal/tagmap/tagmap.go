// Package tagmap turns localized OpenAPI tag strings into stable ASCII folder paths.
//
// Tags may be hierarchical ("parent/child"). Each segment is looked up on its own
// and unmapped segments pass through unchanged, so Normalize never fails.
package tagmap

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Separator joins the segments of a hierarchical tag.
const Separator = "/"

// DefaultTag is used for operations that carry no tags at all.
const DefaultTag = "default"

// Table is an immutable source-tag -> folder-segment mapping for one API surface.
type Table struct {
	name    string
	entries map[string]string
	// folded indexes keys by NFKC form. It only feeds Suggest.
	folded map[string]string
}

// NewTable copies entries into a new read-only table.
func NewTable(name string, entries map[string]string) *Table {
	t := &Table{
		name:    name,
		entries: maps.Clone(entries),
		folded:  make(map[string]string, len(entries)),
	}
	if t.entries == nil {
		t.entries = map[string]string{}
	}
	for k := range t.entries {
		fk := norm.NFKC.String(k)
		if prev, exists := t.folded[fk]; !exists || k < prev {
			t.folded[fk] = k
		}
	}
	return t
}

// Name identifies the table in configuration and logs.
func (t *Table) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Len returns the number of keys in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Keys returns the table keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.entries))
}

// Lookup returns the mapped value for a single key. Only exact keys match.
func (t *Table) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.entries[key]
	return v, ok
}

// Suggest returns the table key that differs from segment only by width or
// compatibility forms, such as "(" for "（". Exact keys and unrelated
// strings return false.
func (t *Table) Suggest(segment string) (string, bool) {
	if t == nil {
		return "", false
	}
	if _, exact := t.entries[segment]; exact {
		return "", false
	}
	key, ok := t.folded[norm.NFKC.String(segment)]
	return key, ok
}

// Normalize maps every segment of tag through t and rejoins them.
// A nil table maps nothing.
func Normalize(tag string, t *Table) string {
	parts := strings.Split(tag, Separator)
	for i, part := range parts {
		if mapped, ok := t.Lookup(part); ok {
			parts[i] = mapped
		}
	}
	return strings.Join(parts, Separator)
}

// PrimaryTag returns the tag that decides an operation's folder: the first one,
// or DefaultTag when there are none or the first is empty.
func PrimaryTag(tags []string) string {
	if len(tags) == 0 || tags[0] == "" {
		return DefaultTag
	}
	return tags[0]
}

// Inconsistency records a composite key whose mapped value disagrees with the
// value segment-wise normalization produces for it.
type Inconsistency struct {
	Key        string
	Mapped     string
	Normalized string
}

// Check reports composite keys that Normalize would resolve differently from
// their own table entry. Normalize never consults composite keys, so such
// entries are dead data.
func (t *Table) Check() []Inconsistency {
	var out []Inconsistency
	for _, key := range t.Keys() {
		if !strings.Contains(key, Separator) {
			continue
		}
		mapped := t.entries[key]
		if got := Normalize(key, t); got != mapped {
			out = append(out, Inconsistency{Key: key, Mapped: mapped, Normalized: got})
		}
	}
	return out
}

// Merge returns a new table holding the entries of all tables. Later tables
// override earlier ones on duplicate keys.
func Merge(name string, tables ...*Table) *Table {
	merged := make(map[string]string)
	for _, t := range tables {
		if t == nil {
			continue
		}
		maps.Copy(merged, t.entries)
	}
	return NewTable(name, merged)
}
