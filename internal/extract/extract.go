// Package extract splits source files into per-line code and comment records
// using configured regular expressions. It does not parse any language.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Line is one source line. Code and Comment are nil when absent.
type Line struct {
	Code        *string `json:"code,omitempty"`
	Comment     *string `json:"comment,omitempty"`
	LongComment bool    `json:"longComment,omitempty"`
}

// HasComment reports whether the line carries a non-empty comment.
func (l Line) HasComment() bool {
	return l.Comment != nil && *l.Comment != ""
}

// HasCode reports whether the line carries code.
func (l Line) HasCode() bool {
	return l.Code != nil
}

// File is the line map of one source file.
type File struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Lines []Line `json:"lines"`
}

// Patterns are the comment expressions. Line and BlockLine must have one
// capture group holding the comment text.
type Patterns struct {
	Line       *regexp.Regexp
	BlockOpen  *regexp.Regexp
	BlockLine  *regexp.Regexp
	BlockClose *regexp.Regexp
}

// ErrNotText is returned for files that are not valid UTF-8.
var ErrNotText = errors.New("not a UTF-8 text file")

// ReadFile reads name (slash-separated, relative to root) from disk and
// extracts it. The File keeps name as given since it becomes the document path.
func ReadFile(root, name string, p Patterns) (*File, error) {
	// #nosec G304 -- name comes from configured source discovery
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotText)
	}
	return Extract(name, string(data), p), nil
}

// Extract builds the line map of src.
func Extract(name, src string, p Patterns) *File {
	f := &File{Name: name, Type: FileType(name), Lines: []Line{}}
	inBlock := false
	for _, raw := range splitLines(src) {
		var line Line
		line, inBlock = p.line(raw, inBlock)
		f.Lines = append(f.Lines, line)
	}
	return f
}

// FileType is the extension of name without the leading dot.
func FileType(name string) string {
	return strings.TrimPrefix(path.Ext(name), ".")
}

func (p Patterns) line(raw string, inBlock bool) (Line, bool) {
	if inBlock {
		if loc := find(p.BlockClose, raw); loc != nil {
			l := Line{LongComment: true}
			l.Comment = p.blockText(raw[:loc[0]])
			l.Code = codeText(raw[loc[1]:])
			return l, false
		}
		// Blank lines inside a block are kept so paragraphs stay apart.
		l := Line{LongComment: true}
		l.Comment = p.blockText(raw)
		if l.Comment == nil {
			empty := ""
			l.Comment = &empty
		}
		return l, true
	}

	if loc := find(p.BlockOpen, raw); loc != nil && !p.lineCommentBefore(raw, loc[0]) {
		l := Line{LongComment: true, Code: codeText(raw[:loc[0]])}
		rest := raw[loc[1]:]
		if end := find(p.BlockClose, rest); end != nil {
			l.Comment = p.blockText(rest[:end[0]])
			return l, false
		}
		l.Comment = p.blockText(rest)
		return l, true
	}

	if p.Line != nil {
		if m := p.Line.FindStringSubmatchIndex(raw); m != nil {
			l := Line{Code: codeText(raw[:m[0]])}
			text := ""
			if len(m) >= 4 && m[2] >= 0 {
				text = raw[m[2]:m[3]]
			}
			l.Comment = &text
			return l, false
		}
	}

	code := raw
	return Line{Code: &code}, false
}

// lineCommentBefore reports whether a line comment starts before offset, in
// which case a block opener at offset is part of that comment.
func (p Patterns) lineCommentBefore(raw string, offset int) bool {
	loc := find(p.Line, raw)
	return loc != nil && loc[0] < offset
}

func (p Patterns) blockText(s string) *string {
	text := s
	if p.BlockLine != nil {
		if m := p.BlockLine.FindStringSubmatchIndex(s); m != nil && len(m) >= 4 && m[2] >= 0 {
			text = s[m[2]:m[3]]
		}
	}
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return nil
	}
	return &text
}

func codeText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	code := strings.TrimRight(s, " \t")
	return &code
}

func find(re *regexp.Regexp, s string) []int {
	if re == nil {
		return nil
	}
	return re.FindStringIndex(s)
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	src = strings.TrimSuffix(src, "\n")
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
