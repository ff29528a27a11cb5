// Package errors provides classified errors for the apidocs generator.
//
// Every error that can end a run carries a category, which decides the process
// exit code (see Category.ExitCode). Severity is a slog level; fatal errors
// abort the run, warnings are logged and the run moves on.
//
// Usage:
//
//	return errors.SpecError("failed to parse specification").
//		WithCause(err).
//		WithContext("source", location).
//		Build()
package errors
