package errors

// Builder assembles an *Error.
type Builder struct {
	err Error
}

func newBuilder(c Category, sev Severity, message string) *Builder {
	return &Builder{err: Error{category: c, severity: sev, message: message}}
}

// New starts an error of category c at error severity.
func New(c Category, message string) *Builder {
	return newBuilder(c, SeverityError, message)
}

// Wrap starts an error of category c around cause.
func Wrap(cause error, c Category, message string) *Builder {
	return New(c, message).WithCause(cause)
}

func (b *Builder) WithCause(err error) *Builder {
	b.err.cause = err
	return b
}

func (b *Builder) WithContext(key string, value any) *Builder {
	if b.err.fields == nil {
		b.err.fields = map[string]any{}
	}
	b.err.fields[key] = value
	return b
}

func (b *Builder) Fatal() *Builder {
	b.err.severity = SeverityFatal
	return b
}

func (b *Builder) Warning() *Builder {
	b.err.severity = SeverityWarning
	return b
}

func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// Configuration, validation, fetch and parse problems stop the run.

func ConfigError(message string) *Builder {
	return newBuilder(CategoryConfig, SeverityFatal, message)
}

func ValidationError(message string) *Builder {
	return newBuilder(CategoryValidation, SeverityFatal, message)
}

// NetworkError is a specification that could not be fetched.
func NetworkError(message string) *Builder {
	return newBuilder(CategoryNetwork, SeverityFatal, message)
}

// SpecError is a specification that could not be parsed.
func SpecError(message string) *Builder {
	return newBuilder(CategorySpec, SeverityFatal, message)
}

func InternalError(message string) *Builder {
	return newBuilder(CategoryInternal, SeverityFatal, message)
}

// FileSystemError defaults to error severity; callers escalate with Fatal.
func FileSystemError(message string) *Builder {
	return New(CategoryFileSystem, message)
}
