package linkverify

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/dulynoted/internal/frontmatter"
	"git.home.luguber.info/inful/dulynoted/internal/markdown"
)

// Link is one reference found in a generated page.
type Link struct {
	URL string
	// Tag is the HTML element, or "markdown" for Markdown links.
	Tag string
	// Line is 1-based, or -1 when unknown.
	Line int
}

// Page is the link and anchor inventory of one generated file.
type Page struct {
	// Path is slash-separated and relative to the output directory.
	Path    string
	Links   []Link
	Anchors map[string]struct{}
}

// HasAnchor reports whether the page declares id as an id or name attribute.
func (p *Page) HasAnchor(id string) bool {
	_, ok := p.Anchors[id]
	return ok
}

var linkAttributes = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
}

// ExtractHTML collects the links and anchors of an HTML document.
func ExtractHTML(r io.Reader) (links []Link, anchors map[string]struct{}, err error) {
	anchors = make(map[string]struct{})
	z := html.NewTokenizer(r)
	line := 1
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				return links, anchors, nil
			}
			return nil, nil, z.Err()
		}
		start := line
		line += bytes.Count(z.Raw(), []byte{'\n'})
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		tag := string(name)
		want := linkAttributes[tag]
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			k := string(key)
			switch {
			case (k == "id" || k == "name") && len(val) > 0:
				anchors[string(val)] = struct{}{}
			case k == want && len(val) > 0:
				links = append(links, Link{URL: string(val), Tag: tag, Line: start})
			}
		}
	}
}

// ExtractMarkdown collects the links and raw HTML anchors of a Markdown
// document. A leading front matter block is skipped.
func ExtractMarkdown(content []byte) ([]Link, map[string]struct{}, error) {
	body := content
	offset := 0
	if _, rest, ok, err := frontmatter.Split(content); err != nil {
		return nil, nil, err
	} else if ok {
		body = rest
		offset = bytes.Count(content[:len(content)-len(rest)], []byte{'\n'})
	}

	found, err := markdown.ExtractLinks(body, markdown.DefaultOptions)
	if err != nil {
		return nil, nil, err
	}
	links := make([]Link, 0, len(found))
	for _, l := range found {
		line := lineOf(body, l.Destination)
		if line > 0 {
			line += offset
		}
		links = append(links, Link{URL: l.Destination, Tag: "markdown", Line: line})
	}

	anchors := make(map[string]struct{})
	for _, id := range markdown.ExtractAnchors(body, markdown.DefaultOptions) {
		anchors[id] = struct{}{}
	}
	return links, anchors, nil
}

// lineOf returns the 1-based line of the first occurrence of s in body.
func lineOf(body []byte, s string) int {
	if s == "" {
		return -1
	}
	i := bytes.Index(body, []byte(s))
	if i < 0 {
		return -1
	}
	return bytes.Count(body[:i], []byte{'\n'}) + 1
}

// isLocal reports whether a link points into the output directory rather
// than at another site or a non-navigational scheme.
func isLocal(link string) bool {
	if link == "" || strings.HasPrefix(link, "//") {
		return false
	}
	if i := strings.IndexAny(link, ":/?#"); i > 0 && link[i] == ':' {
		return false
	}
	return true
}
