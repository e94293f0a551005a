// Package linkverify checks the generated documentation for broken internal
// links: every relative link must name an existing output file, and a
// fragment must match an id or name attribute in its target.
package linkverify

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
)

// githubAnchorPrefix is added by GitHub to every id rendered from Markdown.
const githubAnchorPrefix = "user-content-"

// Options tunes a verification run.
type Options struct {
	// MarkdownFragments checks fragments that point into Markdown documents.
	// Only enable it when the documents carry HTML anchors.
	MarkdownFragments bool
	// Exclude lists directories, relative to the output directory, that are
	// not scanned.
	Exclude []string
	// Concurrency bounds the number of pages parsed at once.
	Concurrency int
}

// Report counts what a run looked at.
type Report struct {
	Pages  int
	Links  int
	Broken int
}

// Verifier checks one output directory.
type Verifier struct {
	dir  string
	opts Options
	diag *diagnostics.Collector
}

// New returns a verifier for outputDir. Broken links are reported to diag.
func New(outputDir string, opts Options, diag *diagnostics.Collector) *Verifier {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	return &Verifier{dir: outputDir, opts: opts, diag: diag}
}

// Verify parses every generated page and checks its local links.
func (v *Verifier) Verify(ctx context.Context) (*Report, error) {
	names, err := v.pages()
	if err != nil {
		return nil, err
	}
	pages, err := v.parse(ctx, names)
	if err != nil {
		return nil, err
	}

	report := &Report{Pages: len(pages)}
	for _, name := range names {
		p, ok := pages[name]
		if !ok {
			continue
		}
		for _, l := range p.Links {
			if !isLocal(l.URL) {
				continue
			}
			report.Links++
			if msg := v.check(p, l, pages); msg != "" {
				report.Broken++
				v.diag.Report(diagnostics.KindBrokenLink, p.Path, l.Line, "%s: %s", l.URL, msg)
			}
		}
	}

	slog.Info("Link verification completed",
		logfields.Path(v.dir),
		logfields.Count(report.Pages),
		slog.Int("links", report.Links),
		slog.Int("broken", report.Broken))
	return report, nil
}

// check returns why l is broken, or "" when it resolves.
func (v *Verifier) check(from *Page, l Link, pages map[string]*Page) string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return "malformed link"
	}

	target := from.Path
	if u.Path != "" {
		target = path.Clean(path.Join(path.Dir(from.Path), u.Path))
		if target == ".." || strings.HasPrefix(target, "../") {
			return "points outside the output directory"
		}
		info, err := os.Stat(filepath.Join(v.dir, filepath.FromSlash(target)))
		if err != nil || info.IsDir() {
			return "target " + target + " does not exist"
		}
	}
	if u.Fragment == "" {
		return ""
	}

	tp, ok := pages[target]
	if !ok || (isMarkdown(target) && !v.opts.MarkdownFragments) {
		return ""
	}
	if tp.HasAnchor(u.Fragment) || tp.HasAnchor(strings.TrimPrefix(u.Fragment, githubAnchorPrefix)) {
		return ""
	}
	return "anchor #" + u.Fragment + " not found in " + target
}

// pages lists the generated documents, sorted.
func (v *Verifier) pages() ([]string, error) {
	excluded := make(map[string]struct{}, len(v.opts.Exclude))
	for _, e := range v.opts.Exclude {
		excluded[path.Clean(filepath.ToSlash(e))] = struct{}{}
	}

	var names []string
	err := filepath.WalkDir(v.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(v.dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if _, skip := excluded[rel]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if isHTML(rel) || isMarkdown(rel) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot scan output directory").
			WithContext("dir", v.dir).
			Build()
	}
	sort.Strings(names)
	return names, nil
}

// parse extracts every page with at most Concurrency files open at once.
// Pages that cannot be read or parsed are reported and left out.
func (v *Verifier) parse(ctx context.Context, names []string) (map[string]*Page, error) {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		sem   = make(chan struct{}, v.opts.Concurrency)
		pages = make(map[string]*Page, len(names))
		fails = make(map[string]error)
	)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }()
			p, err := v.parsePage(name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fails[name] = err
				return
			}
			pages[name] = p
		}(name)
	}
	wg.Wait()

	failed := make([]string, 0, len(fails))
	for name := range fails {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		v.diag.Report(diagnostics.KindInvalidInput, name, -1, "cannot parse %s: %v", name, fails[name])
	}
	return pages, nil
}

func (v *Verifier) parsePage(name string) (*Page, error) {
	// #nosec G304 -- name was found by walking the output directory
	data, err := os.ReadFile(filepath.Join(v.dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	p := &Page{Path: name}
	if isHTML(name) {
		p.Links, p.Anchors, err = ExtractHTML(bytes.NewReader(data))
	} else {
		p.Links, p.Anchors, err = ExtractMarkdown(data)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func isHTML(name string) bool {
	return strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm")
}

func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md")
}
