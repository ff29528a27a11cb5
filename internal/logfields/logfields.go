package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySurface    = "surface"
	KeySource     = "source"
	KeyOperation  = "operation"
	KeyRoute      = "route"
	KeyMethod     = "method"
	KeyTag        = "tag"
	KeyPath       = "path"
	KeyReason     = "reason"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Surface(name string) slog.Attr    { return slog.String(KeySurface, name) }
func Source(loc string) slog.Attr      { return slog.String(KeySource, loc) }
func Operation(id string) slog.Attr    { return slog.String(KeyOperation, id) }
func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Tag(t string) slog.Attr           { return slog.String(KeyTag, t) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Reason(r string) slog.Attr        { return slog.String(KeyReason, r) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
