package refs

import (
	"encoding/json"
)

// Record is the persisted form of a Collection:
// {"id": "", "anchors": [{"id","file","line"}], "subcollections": [<Record>]}.
type Record struct {
	ID             string   `json:"id"`
	Anchors        []Anchor `json:"anchors"`
	Subcollections []Record `json:"subcollections"`
}

// Record converts the tree rooted at c to its persisted form.
func (c *Collection) Record() Record {
	r := Record{
		ID:             c.ID,
		Anchors:        append([]Anchor{}, c.Anchors...),
		Subcollections: make([]Record, 0, len(c.Subcollections)),
	}
	for _, sub := range c.Subcollections {
		r.Subcollections = append(r.Subcollections, sub.Record())
	}
	return r
}

// Inflate rebuilds a Collection tree from its persisted form. The record is
// trusted: no duplicate or collision checks are applied.
func Inflate(r Record) *Collection {
	c := NewCollection(r.ID)
	c.Anchors = append(c.Anchors, r.Anchors...)
	for _, sub := range r.Subcollections {
		c.Subcollections = append(c.Subcollections, Inflate(sub))
	}
	return c
}

// MarshalJSON encodes c in its persisted form.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Record())
}

// UnmarshalJSON decodes the persisted form into c.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*c = *Inflate(r)
	return nil
}
