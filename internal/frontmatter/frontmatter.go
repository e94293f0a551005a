// Package frontmatter reads and writes the YAML front matter block of
// generated Markdown documents.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document opens a front matter
// block that is never closed.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates the raw front matter (without delimiters) from the body.
// ok is false and body is the whole input when there is no front matter.
// Both LF and CRLF line endings are recognized.
func Split(content []byte) (raw, body []byte, ok bool, err error) {
	nl := newline(content)
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closing := []byte(nl + delimiter + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], true, nil
}

// Parse decodes raw front matter into a map. Empty input yields an empty map.
func Parse(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Join prepends a front matter block holding fields to body. With no fields
// the body is returned unchanged.
func Join(fields map[string]any, body []byte) ([]byte, error) {
	if len(fields) == 0 {
		return body, nil
	}
	raw, err := Serialize(fields)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(raw)+len(body)+8)
	out = append(out, delimiter+"\n"...)
	out = append(out, raw...)
	out = append(out, delimiter+"\n"...)
	return append(out, body...), nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
