package errors

import "log/slog"

// Category groups failures by what the user has to fix.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"
	CategoryNetwork    Category = "network"
	CategorySpec       Category = "spec"
	CategoryFileSystem Category = "filesystem"
	CategoryInternal   Category = "internal"
)

var exitCodes = map[Category]int{
	CategoryValidation: 2,
	CategoryConfig:     7,
	CategoryNetwork:    8,
	CategorySpec:       8,
	CategoryInternal:   10,
	CategoryFileSystem: 11,
}

// ExitCode is the process status for a run that failed with c.
func (c Category) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// Severity is the log level a failure is reported at. Fatal sits above
// slog.LevelError and aborts the run.
type Severity = slog.Level

const (
	SeverityWarning Severity = slog.LevelWarn
	SeverityError   Severity = slog.LevelError
	SeverityFatal   Severity = slog.LevelError + 4
)

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr that prints SeverityFatal
// as "FATAL" instead of "ERROR+4".
func ReplaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= SeverityFatal {
		a.Value = slog.StringValue("FATAL")
	}
	return a
}
