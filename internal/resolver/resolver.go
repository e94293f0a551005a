package resolver

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
	"git.home.luguber.info/inful/dulynoted/internal/scanner"
)

// Kind classifies the outcome of resolving one link tag.
type Kind string

const (
	KindExternal   Kind = "external"
	KindInternal   Kind = "internal"
	KindUnresolved Kind = "unresolved"
)

// Target is a resolved link tag.
type Target struct {
	Kind Kind
	Text string
	Href string
}

// Site locates the comment being rewritten. File and Line identify it in
// diagnostics; Prefix is the relative ascent from its document to the output
// root (see DocumentPrefix).
type Site struct {
	File   string
	Line   int
	Prefix string
}

// Stats counts resolver outcomes since construction.
type Stats struct {
	Anchors    int
	External   int
	Internal   int
	Unresolved int
}

// Options configures a Resolver.
type Options struct {
	AnchorPattern *regexp.Regexp
	LinkPattern   *regexp.Regexp
	// Tags is the lookup table, normally the top-level view of the tree.
	Tags        []refs.Tag
	External    []ExternalReference
	Syntax      LinkSyntax
	Diagnostics *diagnostics.Collector
}

// Resolver rewrites comments for one generator. It is not safe for
// concurrent use.
type Resolver struct {
	anchorRE *regexp.Regexp
	linkRE   *regexp.Regexp
	tags     *refs.TagIndex
	external *ExternalTable
	syntax   LinkSyntax
	diag     *diagnostics.Collector
	stats    Stats
}

// New builds a Resolver. A nil Syntax defaults to HTMLSyntax.
func New(opts Options) *Resolver {
	syntax := opts.Syntax
	if syntax == nil {
		syntax = HTMLSyntax{}
	}
	return &Resolver{
		anchorRE: opts.AnchorPattern,
		linkRE:   opts.LinkPattern,
		tags:     refs.NewTagIndex(opts.Tags),
		external: NewExternalTable(opts.External),
		syntax:   syntax,
		diag:     opts.Diagnostics,
	}
}

// Syntax returns the link syntax the resolver writes.
func (r *Resolver) Syntax() LinkSyntax { return r.syntax }

// Stats returns the outcome counters.
func (r *Resolver) Stats() Stats { return r.stats }

// Resolve decides what rawTag points at. External references win over
// internal anchors; internal lookup uses the whole tag. Unresolved tags are
// not reported here.
func (r *Resolver) Resolve(rawTag string, site Site) Target {
	segments := strings.Split(rawTag, "/")
	if ext, ok := r.external.Lookup(segments[0]); ok {
		return Target{Kind: KindExternal, Text: rawTag, Href: ext.Expand(segments[1:])}
	}
	if tag, ok := r.tags.Lookup(rawTag); ok {
		href := site.Prefix + tag.Path + r.syntax.Extension() + "#" + r.syntax.Fragment(tag)
		return Target{Kind: KindInternal, Text: rawTag, Href: href}
	}
	return Target{Kind: KindUnresolved, Text: rawTag}
}

// ReplaceLinks rewrites every link tag in comment. Unresolved tags stay as
// they are and are reported as warnings.
func (r *Resolver) ReplaceLinks(comment string, site Site) string {
	return scanner.Substitute(r.linkRE, comment, func(m scanner.Match) (string, bool) {
		target := r.Resolve(m.Tag, site)
		switch target.Kind {
		case KindExternal:
			r.stats.External++
		case KindInternal:
			r.stats.Internal++
		default:
			r.stats.Unresolved++
			r.diag.Report(diagnostics.KindUnresolvedLink, site.File, site.Line,
				"link %q in %s:%d does not have a corresponding anchor", m.Tag, site.File, site.Line)
			return "", false
		}
		return r.syntax.Link(target.Text, target.Href), true
	})
}

// ReplaceAnchors rewrites every anchor declaration in comment into the
// syntax's declaration form.
func (r *Resolver) ReplaceAnchors(comment string) string {
	return scanner.Substitute(r.anchorRE, comment, func(m scanner.Match) (string, bool) {
		out, ok := r.syntax.Declaration(m.Tag)
		if ok {
			r.stats.Anchors++
		}
		return out, ok
	})
}

// Rewrite replaces anchor declarations, then link tags. Empty comments are
// returned unchanged.
func (r *Resolver) Rewrite(comment string, site Site) string {
	if comment == "" {
		return comment
	}
	return r.ReplaceLinks(r.ReplaceAnchors(comment), site)
}
