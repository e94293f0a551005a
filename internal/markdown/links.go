package markdown

// Options controls how comment Markdown is parsed and rendered.
type Options struct {
	// GFM enables GitHub Flavored Markdown tables, strikethrough, task lists
	// and autolinks.
	GFM bool
}

// DefaultOptions is used by the generators.
var DefaultOptions = Options{GFM: true}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
}
