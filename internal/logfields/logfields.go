package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID    = "run_id"
	KeyStage    = "stage"
	KeyFile     = "file"
	KeyLine     = "line"
	KeyPath     = "path"
	KeyLanguage = "language"
	KeyCommand  = "command"
	KeyNode     = "node"
	KeyGroup    = "group"
	KeySubdir   = "subdir"
	KeyTitle    = "title"
	KeyCount    = "count"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Language(l string) slog.Attr     { return slog.String(KeyLanguage, l) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Node(n string) slog.Attr         { return slog.String(KeyNode, n) }
func Group(g string) slog.Attr        { return slog.String(KeyGroup, g) }
func Subdir(s string) slog.Attr       { return slog.String(KeySubdir, s) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDuration, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
