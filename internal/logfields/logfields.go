package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyGenerator  = "generator"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyLine       = "line"
	KeyAnchor     = "anchor"
	KeyLink       = "link"
	KeyCollection = "collection"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyKind       = "kind"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func Generator(name string) slog.Attr   { return slog.String(KeyGenerator, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Line(n int) slog.Attr              { return slog.Int(KeyLine, n) }
func Anchor(id string) slog.Attr        { return slog.String(KeyAnchor, id) }
func Link(tag string) slog.Attr         { return slog.String(KeyLink, tag) }
func Collection(name string) slog.Attr  { return slog.String(KeyCollection, name) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Kind(k string) slog.Attr           { return slog.String(KeyKind, k) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
