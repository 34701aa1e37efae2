// Package diag reports non-fatal diagnostics with a source location.
//
// Warnings never unwind the caller: a metacommand used on the wrong node or a
// file outside the bundle base dir is reported and processing continues.
// Fatal conditions are returned as errors by the code that detects them.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/metrics"
)

// Kind classifies a warning.
type Kind string

const (
	KindLegacyCommand Kind = "legacy_command"
	KindWrongNode     Kind = "wrong_node"
	KindBaseDir       Kind = "base_dir"
	KindTitleIndex    Kind = "title_index"
	KindParser        Kind = "parser"
)

// Location identifies a position in a source file. The zero value means
// "no particular location".
type Location struct {
	File   string
	Line   int
	Column int
}

// At returns a location at the start of file.
func At(file string) Location {
	return Location{File: file}
}

func (l Location) String() string {
	switch {
	case l.File == "":
		return "docparse"
	case l.Line <= 0:
		return l.File
	case l.Column <= 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}

// Diagnostic is one reported warning.
type Diagnostic struct {
	Location Location
	Kind     Kind
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: warning: %s", d.Location, d.Message)
}

// Reporter receives warnings.
type Reporter interface {
	Warning(loc Location, kind Kind, msg string)
}

// LogReporter writes warnings to a slog.Logger and counts them.
type LogReporter struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewLogReporter returns a reporter logging through logger. Nil arguments fall
// back to slog.Default and metrics.NoopRecorder.
func NewLogReporter(logger *slog.Logger, recorder metrics.Recorder) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &LogReporter{logger: logger, recorder: recorder}
}

func (r *LogReporter) Warning(loc Location, kind Kind, msg string) {
	r.recorder.IncDiagnostic(string(kind))
	attrs := []slog.Attr{slog.String("kind", string(kind))}
	if loc.File != "" {
		attrs = append(attrs, logfields.File(loc.File))
	}
	if loc.Line > 0 {
		attrs = append(attrs, logfields.Line(loc.Line))
	}
	r.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

// Collector keeps every warning in memory and optionally forwards to Next.
type Collector struct {
	Next Reporter

	mu    sync.Mutex
	items []Diagnostic
}

func (c *Collector) Warning(loc Location, kind Kind, msg string) {
	c.mu.Lock()
	c.items = append(c.items, Diagnostic{Location: loc, Kind: kind, Message: msg})
	c.mu.Unlock()
	if c.Next != nil {
		c.Next.Warning(loc, kind, msg)
	}
}

// Diagnostics returns a copy of the collected warnings in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns the number of collected warnings of the given kind.
func (c *Collector) Count(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Discard drops every warning.
type Discard struct{}

func (Discard) Warning(Location, Kind, string) {}
