// Package refs holds the anchor/collection tree built from "/"-delimited anchor
// tags, and the flattened views derived from it.
//
// A Collection owns its anchors and subcollections; there are no parent links
// because every lookup walks down from the root. The tree is grown only through
// AddAnchorTag while sources are scanned, persisted as a Record, and inflated
// again by the generators. After that it is read-only.
package refs
