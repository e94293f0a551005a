package refs

// CollectionReport groups the direct anchors of one collection for index pages.
type CollectionReport struct {
	Name    string `json:"name"`
	Anchors []Tag  `json:"anchors"`
}

// TagsByCollection returns one entry per collection that has direct anchors,
// depth-first with a collection's entry before its subcollections' entries.
// Entries are never merged: a parent lists only its own anchors.
func (c *Collection) TagsByCollection() []CollectionReport {
	return c.tagsByCollection("")
}

func (c *Collection) tagsByCollection(parentPath string) []CollectionReport {
	qualified := joinPath(parentPath, c.ID)
	var reports []CollectionReport
	if len(c.Anchors) > 0 {
		entry := CollectionReport{Name: qualified, Anchors: make([]Tag, 0, len(c.Anchors))}
		for _, a := range c.Anchors {
			entry.Anchors = append(entry.Anchors, Tag{
				Anchor:     joinPath(qualified, a.ID),
				Path:       a.File,
				LinkStub:   a.ID,
				Collection: qualified,
			})
		}
		reports = append(reports, entry)
	}
	for _, sub := range c.Subcollections {
		reports = append(reports, sub.tagsByCollection(qualified)...)
	}
	return reports
}
