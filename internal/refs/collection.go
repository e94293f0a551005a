package refs

import (
	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
)

// Anchor is a named reference point declared in a comment.
type Anchor struct {
	ID   string `json:"id"`
	File string `json:"file"`
	Line int    `json:"line"` // 0-based line index in File
}

// Collection is a named namespace of anchors and nested collections.
// The root collection has an empty ID.
type Collection struct {
	ID             string
	Anchors        []Anchor
	Subcollections []*Collection
}

// NewCollection returns an empty collection named id.
func NewCollection(id string) *Collection {
	return &Collection{
		ID:             id,
		Anchors:        []Anchor{},
		Subcollections: []*Collection{},
	}
}

// Anchor returns the first anchor with the given id.
func (c *Collection) Anchor(id string) (Anchor, bool) {
	for _, a := range c.Anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}

// Subcollection returns the subcollection with the given id, or nil.
func (c *Collection) Subcollection(id string) *Collection {
	for _, sub := range c.Subcollections {
		if sub.ID == id {
			return sub
		}
	}
	return nil
}

// AddAnchor appends a to the collection. A duplicate id is reported but the
// anchor is still appended; lookups return the first match, so the newer one
// is unreachable by id.
func (c *Collection) AddAnchor(a Anchor, diag *diagnostics.Collector) {
	if existing, ok := c.Anchor(a.ID); ok {
		diag.Report(diagnostics.KindDuplicateAnchor, a.File, a.Line,
			"cannot add anchor %q from %s:%d to %q collection because it was already defined at %s:%d",
			a.ID, a.File, a.Line, c.ID, existing.File, existing.Line)
	}
	c.Anchors = append(c.Anchors, a)
}

// AddSubcollection attaches sub unless its id is already taken by an anchor or
// another subcollection of c. It reports whether sub was inserted.
func (c *Collection) AddSubcollection(sub *Collection, diag *diagnostics.Collector) bool {
	file, line := sub.origin()
	if existing, ok := c.Anchor(sub.ID); ok {
		diag.Report(diagnostics.KindNameCollision, file, line,
			"cannot add collection %q because it was already defined as an anchor at %s:%d",
			sub.ID, existing.File, existing.Line)
		return false
	}
	if c.Subcollection(sub.ID) != nil {
		diag.Report(diagnostics.KindNameCollision, file, line,
			"cannot add collection %q because it is already a subcollection of %q", sub.ID, c.ID)
		return false
	}
	c.Subcollections = append(c.Subcollections, sub)
	return true
}

// AddAnchorTag grows the tree from the segments of an anchor path such as
// ["a", "b", "c"]: every segment but the last names a collection, the last one
// names the anchor. Existing collections are reused, so repeated calls build a
// trie over all declared paths.
func (c *Collection) AddAnchorTag(segments []string, file string, line int, diag *diagnostics.Collector) {
	switch len(segments) {
	case 0:
		return
	case 1:
		c.AddAnchor(Anchor{ID: segments[0], File: file, Line: line}, diag)
		return
	}

	name, rest := segments[0], segments[1:]
	if sub := c.Subcollection(name); sub != nil {
		sub.AddAnchorTag(rest, file, line, diag)
		return
	}

	sub := NewCollection(name)
	sub.AddAnchorTag(rest, file, line, diag)
	c.AddSubcollection(sub, diag)
}

// AnchorCount returns the number of anchors in c and all its descendants.
func (c *Collection) AnchorCount() int {
	n := len(c.Anchors)
	for _, sub := range c.Subcollections {
		n += sub.AnchorCount()
	}
	return n
}

// origin returns the location of the first anchor found depth-first, which for
// a freshly built subcollection is the declaration that created it.
func (c *Collection) origin() (string, int) {
	if len(c.Anchors) > 0 {
		return c.Anchors[0].File, c.Anchors[0].Line
	}
	for _, sub := range c.Subcollections {
		if file, line := sub.origin(); file != "" {
			return file, line
		}
	}
	return "", -1
}
