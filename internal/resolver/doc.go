// Package resolver turns scanned link tags into hyperlinks.
//
// A link tag is checked against the external reference table first, then
// against the bare-id view of the anchor tree. How a link, a fragment or an
// anchor declaration is written depends on the LinkSyntax of the generator
// that owns the resolver.
package resolver
