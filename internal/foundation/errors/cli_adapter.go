package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// CLIErrorAdapter reports a failed command and turns it into an exit status.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor is 0 for nil, 1 for unclassified errors and the category code otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := AsClassified(err); ok {
		return e.Category().ExitCode()
	}
	return 1
}

// FormatError renders err for stderr. Without --verbose only the message and
// the innermost cause are shown; every error of an aggregated cause is kept.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	e, ok := AsClassified(err)
	switch {
	case !ok:
		return "Error: " + err.Error()
	case a.verbose || e.Cause() == nil:
		return "Error: " + e.Error()
	default:
		return fmt.Sprintf("Error: %s: %s", e.Message(), summary(e.Cause()))
	}
}

// HandleError logs err, prints it and exits. A nil err is a no-op.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.log(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) log(err error) {
	e, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Generation failed", "error", err)
		return
	}

	fields := e.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys)+2)
	attrs = append(attrs, slog.String("category", string(e.Category())))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	if e.Cause() != nil {
		attrs = append(attrs, slog.String("error", e.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), e.Severity(), e.Message(), attrs...)
}

// summary follows err's chain to its innermost message. An aggregate of
// several errors is summarized member by member.
func summary(err error) string {
	for {
		if merr, ok := err.(*multierror.Error); ok {
			if len(merr.Errors) != 1 {
				parts := make([]string, 0, len(merr.Errors))
				for _, e := range merr.Errors {
					parts = append(parts, summary(e))
				}
				return strings.Join(parts, "; ")
			}
			err = merr.Errors[0]
			continue
		}
		next := goerrors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
