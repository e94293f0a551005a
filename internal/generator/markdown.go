package generator

import (
	"strings"

	"git.home.luguber.info/inful/dulynoted/internal/frontmatter"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

const (
	fence     = "```"
	separator = "------------------------------"
)

// MarkdownOptions tunes MarkdownFormat.
type MarkdownOptions struct {
	HTMLAnchors   bool
	GitHubAnchors bool
	// FrontMatter prepends title, source and a content fingerprint.
	FrontMatter bool
}

// MarkdownFormat writes comments as-is and fences code runs.
type MarkdownFormat struct {
	opts MarkdownOptions
}

func NewMarkdownFormat(opts MarkdownOptions) *MarkdownFormat {
	return &MarkdownFormat{opts: opts}
}

func (f *MarkdownFormat) Syntax() resolver.LinkSyntax {
	return resolver.MarkdownSyntax{HTMLAnchors: f.opts.HTMLAnchors, GitHubAnchors: f.opts.GitHubAnchors}
}

func (f *MarkdownFormat) Assets() map[string][]byte { return nil }

func (f *MarkdownFormat) RenderDocument(doc *Document) ([]byte, error) {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case BlockCode:
			b.WriteString(fence + doc.Type + "\n")
			b.WriteString(blk.Text)
			b.WriteString("\n" + fence + "\n")
		default:
			b.WriteString(blk.Text)
			b.WriteString("\n")
		}
	}
	body := []byte(b.String())
	if !f.opts.FrontMatter {
		return body, nil
	}

	fields := map[string]any{"title": doc.Name, "source": doc.Name}
	if _, err := frontmatter.Stamp(fields, body); err != nil {
		return nil, err
	}
	return frontmatter.Join(fields, body)
}

func (f *MarkdownFormat) RenderIndex(idx *Index) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# " + idx.Project + " documentation\n")
	if idx.Revision != "" {
		b.WriteString("\nRevision `" + idx.Revision + "`")
		if idx.RunID != "" {
			b.WriteString(", run `" + idx.RunID + "`")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n### Anchor Collections\n")
	for _, c := range idx.Collections {
		b.WriteString("\n#### " + c.Name + "\n\n")
		for _, a := range c.Anchors {
			b.WriteString("* [" + a.Anchor + "](" + a.Href + ")\n")
		}
	}

	b.WriteString("\n" + separator + "\n\n### Documentation Files\n\n")
	for _, file := range idx.Files {
		b.WriteString("* [" + file.Name + "](" + file.Href + ")\n")
	}
	b.WriteString("\n" + separator + "\n")

	if idx.Readme != "" {
		b.WriteString("\n" + idx.Readme)
		if !strings.HasSuffix(idx.Readme, "\n") {
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}
