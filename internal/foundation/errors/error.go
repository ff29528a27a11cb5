package errors

import (
	goerrors "errors"
	"maps"
	"strings"
)

// Error is a failure tagged with a category, a severity and key/value details.
type Error struct {
	category Category
	severity Severity
	message  string
	cause    error
	fields   map[string]any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[" + string(e.category) + "] " + e.message)
	if e.cause != nil {
		b.WriteString(": " + e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Category() Category { return e.category }

func (e *Error) Severity() Severity { return e.severity }

// Message is the error text without its cause.
func (e *Error) Message() string { return e.message }

func (e *Error) Cause() error { return e.cause }

// Field returns one detail attached with WithContext.
func (e *Error) Field(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// Fields returns a copy of all attached details.
func (e *Error) Fields() map[string]any {
	return maps.Clone(e.fields)
}

// WithContext returns a copy of e carrying one more detail.
func (e *Error) WithContext(key string, value any) *Error {
	cp := *e
	cp.fields = maps.Clone(e.fields)
	if cp.fields == nil {
		cp.fields = map[string]any{}
	}
	cp.fields[key] = value
	return &cp
}

// Is matches errors of the same category and message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.category == e.category && other.message == e.message
}

// AsClassified returns the first *Error in err's chain.
func AsClassified(err error) (*Error, bool) {
	var e *Error
	if goerrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCategory reports whether the first *Error in err's chain has category c.
func HasCategory(err error, c Category) bool {
	e, ok := AsClassified(err)
	return ok && e.category == c
}

// CategoryOf returns the category of err, or CategoryInternal for plain errors.
func CategoryOf(err error) Category {
	if e, ok := AsClassified(err); ok {
		return e.category
	}
	return CategoryInternal
}
