// Package scanner finds anchor-declaration and link tags in comment text.
//
// Patterns carry exactly one capture group holding the tag. Matches are always
// taken from the unmodified input, so zero-width assertions such as ^ or \b
// see the surrounding text, and substituted output is never matched again.
package scanner

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
)

// Match is one tag occurrence. Start and End delimit the whole match in the
// scanned string; Tag is the captured group.
type Match struct {
	Start int
	End   int
	Tag   string
}

// Next returns the first match of re in s that starts at or after pos. The
// whole of s is searched, so text before pos still counts as context.
func Next(re *regexp.Regexp, s string, pos int) (Match, bool) {
	if pos > len(s) {
		return Match{}, false
	}
	for _, m := range All(re, s) {
		if m.Start >= pos {
			return m, true
		}
	}
	return Match{}, false
}

// All returns every non-overlapping match of re in s, left to right.
func All(re *regexp.Regexp, s string) []Match {
	if re == nil {
		return nil
	}
	locs := re.FindAllStringSubmatchIndex(s, -1)
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		m := Match{Start: loc[0], End: loc[1]}
		if len(loc) >= 4 && loc[2] >= 0 {
			m.Tag = s[loc[2]:loc[3]]
		}
		out = append(out, m)
	}
	return out
}

// Replacer returns the text that replaces m, or false to leave the match as is.
type Replacer func(m Match) (string, bool)

// Substitute rewrites every match of re in s using fn. Matches are found in s
// before any replacement is made and the output is assembled left to right.
func Substitute(re *regexp.Regexp, s string, fn Replacer) string {
	matches := All(re, s)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		replacement, replace := fn(m)
		if !replace {
			continue
		}
		b.WriteString(s[last:m.Start])
		b.WriteString(replacement)
		last = m.End
	}
	b.WriteString(s[last:])
	return b.String()
}

// Segments splits a tag path on "/". It reports false when any segment is
// empty, as in "a//b" or "a/".
func Segments(tag string) ([]string, bool) {
	segments := strings.Split(tag, "/")
	for _, seg := range segments {
		if seg == "" {
			return segments, false
		}
	}
	return segments, true
}

// DeclareAnchors adds every anchor declared in comment to tree and returns how
// many were declared. Tags with empty path segments are reported and skipped.
func DeclareAnchors(re *regexp.Regexp, comment, file string, line int, tree *refs.Collection, diag *diagnostics.Collector) int {
	n := 0
	for _, m := range All(re, comment) {
		segments, ok := Segments(m.Tag)
		if !ok {
			diag.Report(diagnostics.KindInvalidInput, file, line,
				"anchor %q in %s:%d has an empty path segment and was skipped", m.Tag, file, line)
			continue
		}
		tree.AddAnchorTag(segments, file, line, diag)
		n++
	}
	return n
}
