package resolver

import "strings"

// Placeholder marks the spots in an external path template that are filled
// from the segments of a link tag.
const Placeholder = "::"

// ExternalReference maps a short key to a URL template.
type ExternalReference struct {
	Anchor string `json:"anchor" yaml:"anchor"`
	Path   string `json:"path" yaml:"path"`
}

// Expand fills successive placeholders in Path with segments, left to right.
// Surplus segments are ignored and unfilled placeholders are kept. Inserted
// segments are never searched for further placeholders.
func (e ExternalReference) Expand(segments []string) string {
	var b strings.Builder
	rest := e.Path
	for _, seg := range segments {
		i := strings.Index(rest, Placeholder)
		if i < 0 {
			break
		}
		b.WriteString(rest[:i])
		b.WriteString(seg)
		rest = rest[i+len(Placeholder):]
	}
	b.WriteString(rest)
	return b.String()
}

// ExternalTable answers first-match lookups by ExternalReference.Anchor.
type ExternalTable struct {
	refs []ExternalReference
}

// NewExternalTable keeps refs in order; for duplicate keys the first wins.
func NewExternalTable(refs []ExternalReference) *ExternalTable {
	return &ExternalTable{refs: append([]ExternalReference(nil), refs...)}
}

// Lookup returns the first reference keyed by anchor.
func (t *ExternalTable) Lookup(anchor string) (ExternalReference, bool) {
	if t == nil {
		return ExternalReference{}, false
	}
	for _, ref := range t.refs {
		if ref.Anchor == anchor {
			return ref, true
		}
	}
	return ExternalReference{}, false
}

// References returns a copy of the table contents.
func (t *ExternalTable) References() []ExternalReference {
	if t == nil {
		return nil
	}
	return append([]ExternalReference(nil), t.refs...)
}
