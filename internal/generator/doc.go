// Package generator turns the parse cache into a documentation set.
//
// Both output formats share one pipeline: every comment is rewritten by a
// resolver.Resolver (anchor declarations first, then link tags), the line
// records of each file are folded into alternating comment and code blocks,
// and a Format renders the blocks and the index page. Formats differ only in
// their resolver.LinkSyntax and their rendering.
package generator
