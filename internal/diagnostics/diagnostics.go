// Package diagnostics collects the recoverable findings of a run: duplicate
// anchors, name collisions, unresolved links and unreadable inputs.
//
// Operations that can produce a finding take a *Collector instead of logging
// through a global logger, so callers decide whether warnings fail the run.
package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"git.home.luguber.info/inful/dulynoted/internal/logfields"
)

// Severity indicates the importance level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Kind identifies the class of a diagnostic.
type Kind string

const (
	KindDuplicateAnchor Kind = "duplicate_anchor"
	KindNameCollision   Kind = "name_collision"
	KindUnresolvedLink  Kind = "unresolved_link"
	KindInvalidInput    Kind = "invalid_input"
	KindBrokenLink      Kind = "broken_link"
)

// DefaultSeverity returns the severity a kind is reported with.
func (k Kind) DefaultSeverity() Severity {
	switch k {
	case KindNameCollision:
		return SeverityError
	default:
		return SeverityWarning
	}
}

// Diagnostic is one structured finding.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	File     string
	Line     int
}

// Location renders file:line, or just the file when no line applies.
func (d Diagnostic) Location() string {
	if d.Line < 0 {
		return d.File
	}
	return fmt.Sprintf("%s:%d", d.File, d.Line)
}

// Collector accumulates diagnostics in report order. A nil *Collector discards
// everything, which keeps call sites free of nil checks.
type Collector struct {
	items  []Diagnostic
	logger *slog.Logger
}

// NewCollector returns a collector that also logs every diagnostic to logger when
// logger is non-nil.
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Report records a diagnostic using the kind's default severity.
func (c *Collector) Report(kind Kind, file string, line int, format string, args ...any) {
	c.Add(Diagnostic{
		Kind:     kind,
		Severity: kind.DefaultSeverity(),
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
	})
}

// Add records d.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	c.items = append(c.items, d)
	if c.logger != nil {
		c.logger.LogAttrs(context.Background(), slogLevel(d.Severity), d.Message,
			logfields.Kind(string(d.Kind)), logfields.File(d.File), logfields.Line(d.Line))
	}
}

// Merge appends every diagnostic of other without logging them again.
func (c *Collector) Merge(other *Collector) {
	if c == nil || other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}

// Items returns a copy of the collected diagnostics.
func (c *Collector) Items() []Diagnostic {
	if c == nil {
		return nil
	}
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Count returns the number of diagnostics of the given kind.
func (c *Collector) Count(kind Kind) int {
	n := 0
	for _, d := range c.Items() {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// CountBySeverity returns the number of diagnostics with exactly the given severity.
func (c *Collector) CountBySeverity(s Severity) int {
	n := 0
	for _, d := range c.Items() {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors returns true if any error-level diagnostic exists.
func (c *Collector) HasErrors() bool {
	return c.CountBySeverity(SeverityError) > 0
}

// HasWarnings returns true if any warning-or-worse diagnostic exists.
func (c *Collector) HasWarnings() bool {
	return c.CountBySeverity(SeverityWarning) > 0 || c.HasErrors()
}

// Sorted returns the diagnostics ordered by file, line and kind, for stable output.
func (c *Collector) Sorted() []Diagnostic {
	items := c.Items()
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].File != items[j].File {
			return items[i].File < items[j].File
		}
		if items[i].Line != items[j].Line {
			return items[i].Line < items[j].Line
		}
		return items[i].Kind < items[j].Kind
	})
	return items
}

func slogLevel(s Severity) slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
