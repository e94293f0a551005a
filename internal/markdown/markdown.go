// Package markdown renders documentation comments with goldmark and
// inspects generated Markdown documents.
package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	xhtml "golang.org/x/net/html"
)

func newGoldmark(opts Options) goldmark.Markdown {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		// Comments carry the named anchors written for declarations.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Render converts a Markdown comment block to HTML.
func Render(src []byte, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := newGoldmark(opts).Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtractLinks parses a Markdown body and extracts link-like constructs.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	ctx := parser.NewContext()
	root := newGoldmark(opts).Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Reference-style links resolve to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links, nil
}

// ExtractAnchors returns the id and name attributes of the raw HTML elements
// embedded in a Markdown body, in document order.
func ExtractAnchors(body []byte, opts Options) []string {
	root := newGoldmark(opts).Parser().Parse(text.NewReader(body))

	var raw strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(body))
			}
		case *gmast.HTMLBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				raw.Write(seg.Value(body))
			}
		}
		return gmast.WalkContinue, nil
	})

	return anchorAttributes(raw.String())
}

func anchorAttributes(fragment string) []string {
	var out []string
	z := xhtml.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return out
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			for {
				key, val, more := z.TagAttr()
				if k := string(key); (k == "id" || k == "name") && len(val) > 0 {
					out = append(out, string(val))
				}
				if !more {
					break
				}
			}
		}
	}
}
