package generator

import (
	"bytes"
	_ "embed"
	"html/template"

	"git.home.luguber.info/inful/dulynoted/internal/markdown"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

//go:embed templates/page.html
var pageTemplate string

//go:embed templates/index.html
var indexTemplate string

//go:embed assets/css/default.css
var defaultCSS []byte

// StylesheetPath is the stylesheet location under the output directory.
const StylesheetPath = "css/default.css"

// HTMLFormat renders pages with html/template. Comment blocks are Markdown
// rendered with goldmark; code blocks are escaped verbatim.
type HTMLFormat struct {
	page  *template.Template
	index *template.Template
	md    markdown.Options
}

// NewHTMLFormat parses the embedded templates.
func NewHTMLFormat() (*HTMLFormat, error) {
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, err
	}
	index, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLFormat{page: page, index: index, md: markdown.DefaultOptions}, nil
}

func (f *HTMLFormat) Syntax() resolver.LinkSyntax { return resolver.HTMLSyntax{} }

func (f *HTMLFormat) Assets() map[string][]byte {
	return map[string][]byte{StylesheetPath: defaultCSS}
}

type htmlBlock struct {
	Comment     template.HTML
	Code        string
	IsCode      bool
	LongComment bool
}

func (f *HTMLFormat) RenderDocument(doc *Document) ([]byte, error) {
	blocks := make([]htmlBlock, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if b.Kind == BlockCode {
			blocks = append(blocks, htmlBlock{Code: b.Text, IsCode: true})
			continue
		}
		rendered, err := f.markdown(b.Text)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, htmlBlock{Comment: rendered, LongComment: b.LongComment})
	}

	return f.execute(f.page, map[string]any{
		"Project":    doc.Project,
		"Name":       doc.Name,
		"Type":       doc.Type,
		"Stylesheet": doc.Prefix + StylesheetPath,
		"IndexHref":  doc.IndexHref,
		"Blocks":     blocks,
	})
}

func (f *HTMLFormat) RenderIndex(idx *Index) ([]byte, error) {
	readme, err := f.markdown(idx.Readme)
	if err != nil {
		return nil, err
	}
	return f.execute(f.index, map[string]any{
		"Project":     idx.Project,
		"Stylesheet":  idx.Prefix + StylesheetPath,
		"Collections": idx.Collections,
		"Files":       idx.Files,
		"Readme":      readme,
		"Revision":    idx.Revision,
		"RunID":       idx.RunID,
	})
}

// markdown renders trusted comment text. The output keeps the inline anchor
// elements written by resolver.HTMLSyntax.
func (f *HTMLFormat) markdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	out, err := markdown.Render([]byte(src), f.md)
	if err != nil {
		return "", err
	}
	// #nosec G203 -- comment text is project source, rendered like the source itself.
	return template.HTML(out), nil
}

func (f *HTMLFormat) execute(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
