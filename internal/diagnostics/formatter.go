package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Summary is what the formatters print: the diagnostics plus the number of files inspected.
type Summary struct {
	Diagnostics []Diagnostic
	FilesTotal  int
}

// Summarize builds a Summary from a collector.
func Summarize(c *Collector, filesTotal int) Summary {
	return Summary{Diagnostics: c.Sorted(), FilesTotal: filesTotal}
}

func (s Summary) count(sev Severity) int {
	n := 0
	for _, d := range s.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Formatter formats a run summary for output.
type Formatter interface {
	Format(w io.Writer, s Summary) error
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	default:
		return &TextFormatter{}
	}
}

// TextFormatter formats diagnostics as human-readable text.
type TextFormatter struct{}

// Format outputs the summary in text form.
func (f *TextFormatter) Format(w io.Writer, s Summary) error {
	p := &printer{w: w}
	for _, d := range s.Diagnostics {
		p.printf("%s %s\n", icon(d.Severity), d.Location())
		p.printf("  %s [%s]: %s\n\n", d.Severity, d.Kind, d.Message)
	}

	p.printf("%s\n", strings.Repeat("━", 60))
	p.printf("Results:\n")
	p.printf("  %d file%s scanned\n", s.FilesTotal, pluralize(s.FilesTotal))
	if n := s.count(SeverityError); n > 0 {
		p.printf("  %d error%s\n", n, pluralize(n))
	}
	if n := s.count(SeverityWarning); n > 0 {
		p.printf("  %d warning%s\n", n, pluralize(n))
	}
	if len(s.Diagnostics) == 0 {
		p.printf("\nAll anchors and links resolved.\n")
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func icon(s Severity) string {
	switch s {
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// JSONFormatter formats diagnostics as JSON.
type JSONFormatter struct{}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	FilesTotal   int              `json:"files_total"`
	ErrorCount   int              `json:"error_count"`
	WarningCount int              `json:"warning_count"`
	Diagnostics  []JSONDiagnostic `json:"diagnostics"`
}

// JSONDiagnostic represents a single diagnostic in JSON format.
type JSONDiagnostic struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Format outputs the summary in JSON form.
func (f *JSONFormatter) Format(w io.Writer, s Summary) error {
	out := JSONOutput{
		FilesTotal:   s.FilesTotal,
		ErrorCount:   s.count(SeverityError),
		WarningCount: s.count(SeverityWarning),
		Diagnostics:  make([]JSONDiagnostic, 0, len(s.Diagnostics)),
	}
	for _, d := range s.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, JSONDiagnostic{
			Kind:     string(d.Kind),
			Severity: d.Severity.String(),
			Message:  d.Message,
			File:     d.File,
			Line:     d.Line,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
