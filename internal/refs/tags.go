package refs

import "strings"

// Tag is the flattened projection of one anchor used for link lookup.
type Tag struct {
	// Anchor is the lookup key: the bare anchor id in the top-level view, or the
	// "/"-joined collection path plus anchor id in the namespaced view.
	Anchor string `json:"anchor"`
	// Path is the source file that declared the anchor.
	Path string `json:"path"`
	// LinkStub is the bare anchor id, used as the HTML fragment.
	LinkStub string `json:"linkStub"`
	// Collection is the qualified path of the owning collection ("" for the root).
	Collection string `json:"collection,omitempty"`
}

// Qualified returns the fully qualified anchor path regardless of view.
func (t Tag) Qualified() string {
	return joinPath(t.Collection, t.LinkStub)
}

// AllTags flattens the tree depth-first, anchors of a collection before its
// subcollections. parentPath is the qualified path of c's parent. When topLevel
// is true every tag is keyed by its bare anchor id at any depth; otherwise keys
// carry the full collection path, with the empty root id omitted.
func (c *Collection) AllTags(parentPath string, topLevel bool) []Tag {
	qualified := joinPath(parentPath, c.ID)
	tags := make([]Tag, 0, len(c.Anchors))
	for _, a := range c.Anchors {
		key := a.ID
		if !topLevel {
			key = joinPath(qualified, a.ID)
		}
		tags = append(tags, Tag{
			Anchor:     key,
			Path:       a.File,
			LinkStub:   a.ID,
			Collection: qualified,
		})
	}
	for _, sub := range c.Subcollections {
		tags = append(tags, sub.AllTags(qualified, topLevel)...)
	}
	return tags
}

// TopLevelTags is the bare-id view consulted by link resolution.
func (c *Collection) TopLevelTags() []Tag {
	return c.AllTags("", true)
}

// NamespacedTags is the fully qualified view. Link resolution does not consult
// it; multi-segment link tags only match when they equal some bare anchor id.
func (c *Collection) NamespacedTags() []Tag {
	return c.AllTags("", false)
}

// TagIndex answers first-match lookups by Tag.Anchor.
type TagIndex struct {
	byAnchor map[string]Tag
}

// NewTagIndex indexes tags; for duplicate keys the first tag wins.
func NewTagIndex(tags []Tag) *TagIndex {
	idx := &TagIndex{byAnchor: make(map[string]Tag, len(tags))}
	for _, t := range tags {
		if _, exists := idx.byAnchor[t.Anchor]; !exists {
			idx.byAnchor[t.Anchor] = t
		}
	}
	return idx
}

// Lookup returns the first tag whose Anchor equals anchor.
func (idx *TagIndex) Lookup(anchor string) (Tag, bool) {
	if idx == nil {
		return Tag{}, false
	}
	t, ok := idx.byAnchor[anchor]
	return t, ok
}

// Len returns the number of distinct keys.
func (idx *TagIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byAnchor)
}

func joinPath(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}
