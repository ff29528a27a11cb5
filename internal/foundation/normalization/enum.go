// Package normalization maps loosely typed configuration strings onto typed enums.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Enum accepts spellings of a string-backed value, ignoring case and
// surrounding space.
type Enum[T comparable] struct {
	name     string
	fallback T
	byKey    map[string]T
}

// NewEnum builds an enum called name. Blank input parses as fallback.
func NewEnum[T comparable](name string, fallback T, spellings map[string]T) *Enum[T] {
	e := &Enum[T]{name: name, fallback: fallback, byKey: make(map[string]T, len(spellings))}
	for k, v := range spellings {
		e.byKey[fold(k)] = v
	}
	return e
}

// Parse returns the value spelled by raw.
func (e *Enum[T]) Parse(raw string) (T, error) {
	key := fold(raw)
	if key == "" {
		return e.fallback, nil
	}
	if v, ok := e.byKey[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q (accepted: %s)", e.name, raw, strings.Join(e.Keys(), ", "))
}

// Or parses raw and falls back on unknown input.
func (e *Enum[T]) Or(raw string) (T, bool) {
	v, err := e.Parse(raw)
	if err != nil {
		return e.fallback, false
	}
	return v, true
}

// Keys lists every accepted spelling, sorted.
func (e *Enum[T]) Keys() []string {
	keys := make([]string, 0, len(e.byKey))
	for k := range e.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
