package resolver

import (
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/dulynoted/internal/refs"
)

// LinkSyntax renders links and anchor declarations for one output format.
type LinkSyntax interface {
	// Name identifies the generator, e.g. "html".
	Name() string
	// Extension is appended to a source path to form its document path.
	Extension() string
	// Link renders an inline hyperlink.
	Link(text, href string) string
	// Fragment is the URL fragment that addresses tag inside its document.
	Fragment(tag refs.Tag) string
	// Declaration renders the declaration site of the anchor tag. It reports
	// false when the format leaves declarations untouched.
	Declaration(tag string) (string, bool)
}

// HTMLSyntax writes documents that are rendered to HTML. Links use Markdown
// syntax since comments go through the Markdown renderer; declarations become
// named anchors keyed by the bare anchor id.
type HTMLSyntax struct{}

func (HTMLSyntax) Name() string      { return "html" }
func (HTMLSyntax) Extension() string { return ".html" }

func (HTMLSyntax) Link(text, href string) string {
	return "[" + text + "](" + href + ")"
}

func (HTMLSyntax) Fragment(tag refs.Tag) string {
	return tag.LinkStub
}

func (HTMLSyntax) Declaration(tag string) (string, bool) {
	stub := lastSegment(tag)
	return `<a name="` + html.EscapeString(stub) + `" id="` + html.EscapeString(stub) + `">&#187; ` +
		html.EscapeString(tag) + `</a>`, true
}

// GitHubPrefix is prepended to fragments by GitHub's Markdown renderer.
const GitHubPrefix = "user-content-"

// MarkdownSyntax writes Markdown documents. Fragments are slugs of the
// qualified anchor path, so "classes/Generator" becomes "classes-generator".
type MarkdownSyntax struct {
	// HTMLAnchors emits an inline <a> element at each declaration.
	HTMLAnchors bool
	// GitHubAnchors prefixes link fragments with GitHubPrefix.
	GitHubAnchors bool
}

func (MarkdownSyntax) Name() string      { return "markdown" }
func (MarkdownSyntax) Extension() string { return ".md" }

func (MarkdownSyntax) Link(text, href string) string {
	return "[" + text + "](" + href + ")"
}

func (s MarkdownSyntax) Fragment(tag refs.Tag) string {
	return s.fragment(Slug(tag.Qualified()))
}

func (s MarkdownSyntax) Declaration(tag string) (string, bool) {
	if !s.HTMLAnchors {
		return "", false
	}
	slug := Slug(tag)
	attr := html.EscapeString(slug)
	return `<a name="` + attr + `" id="` + attr + `"></a>[🔗` + tag + `](#` + s.fragment(slug) + `)`, true
}

func (s MarkdownSyntax) fragment(slug string) string {
	if s.GitHubAnchors {
		return GitHubPrefix + slug
	}
	return slug
}

// Slug lower-cases an anchor path and replaces every "/" with "-".
func Slug(path string) string {
	return cases.Lower(language.Und).String(strings.ReplaceAll(path, "/", "-"))
}

func lastSegment(tag string) string {
	if i := strings.LastIndex(tag, "/"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}
