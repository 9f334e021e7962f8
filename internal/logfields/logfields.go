package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRoot       = "root"
	KeyCount      = "count"
	KeySkipped    = "skipped"
	KeySnapshotID = "snapshot_id"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyQuery      = "query"
	KeyTool       = "tool"
	KeyReason     = "reason"
	KeyTrigger    = "trigger"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Slug(s string) slog.Attr { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func File(f string) slog.Attr { return slog.String(KeyFile, f) }
func Root(r string) slog.Attr { return slog.String(KeyRoot, r) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }
func Skipped(n int) slog.Attr { return slog.Int(KeySkipped, n) }
func SnapshotID(id string) slog.Attr { return slog.String(KeySnapshotID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }
func Query(q string) slog.Attr { return slog.String(KeyQuery, q) }
func Tool(name string) slog.Attr { return slog.String(KeyTool, name) }
func Reason(r string) slog.Attr { return slog.String(KeyReason, r) }
func Trigger(t string) slog.Attr { return slog.String(KeyTrigger, t) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
