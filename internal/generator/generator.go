package generator

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/extract"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

// Format renders documents and the index page for one output format.
type Format interface {
	Syntax() resolver.LinkSyntax
	RenderDocument(doc *Document) ([]byte, error)
	RenderIndex(idx *Index) ([]byte, error)
	// Assets returns static files written once per run, keyed by their
	// slash-separated path under the output directory.
	Assets() map[string][]byte
}

// Document is the render model of one source file.
type Document struct {
	Project string
	// Name is the source path, e.g. "src/gen.ts".
	Name string
	// Type is the source file type used for syntax highlighting.
	Type   string
	Prefix string
	// IndexHref links back to the index page.
	IndexHref string
	Blocks    []Block
}

// Index is the render model of the index page.
type Index struct {
	Project     string
	Prefix      string
	Collections []IndexCollection
	Files       []IndexFile
	// Readme holds the README with its link tags already resolved.
	Readme   string
	Revision string
	RunID    string
}

// IndexCollection lists the direct anchors of one collection.
type IndexCollection struct {
	Name    string
	Anchors []IndexAnchor
}

type IndexAnchor struct {
	Anchor string
	Href   string
}

type IndexFile struct {
	Name string
	Href string
}

// TopLevelName is the index heading used for anchors declared without a
// collection.
const TopLevelName = "(top level)"

// Input is the reloaded parse cache.
type Input struct {
	Tree     *refs.Collection
	External []resolver.ExternalReference
	// Files are rewritten in place.
	Files []*extract.File
}

// Options configures one generation run.
type Options struct {
	ProjectName string
	OutputDir   string
	// IndexFile is the index document path relative to OutputDir.
	IndexFile     string
	Readme        string
	Revision      string
	RunID         string
	AnchorPattern *regexp.Regexp
	LinkPattern   *regexp.Regexp
	Diagnostics   *diagnostics.Collector
}

// Result summarizes a generation run.
type Result struct {
	Generator string
	// Documents are the generated document paths relative to the output directory.
	Documents []string
	Index     string
	Assets    []string
	Stats     resolver.Stats
}

// FilesWritten counts documents, assets and the index.
func (r *Result) FilesWritten() int {
	n := len(r.Documents) + len(r.Assets)
	if r.Index != "" {
		n++
	}
	return n
}

// Generate renders every file of in with format f, then the index page.
// Resolution problems are reported to opts.Diagnostics; rendering and write
// failures abort the run.
func Generate(ctx context.Context, f Format, in Input, opts Options) (*Result, error) {
	if in.Tree == nil {
		in.Tree = refs.NewCollection("")
	}
	syntax := f.Syntax()
	res := resolver.New(resolver.Options{
		AnchorPattern: opts.AnchorPattern,
		LinkPattern:   opts.LinkPattern,
		Tags:          in.Tree.TopLevelTags(),
		External:      in.External,
		Syntax:        syntax,
		Diagnostics:   opts.Diagnostics,
	})
	result := &Result{Generator: syntax.Name()}

	slog.Info("Generating documentation",
		logfields.Generator(syntax.Name()),
		logfields.Count(len(in.Files)),
		logfields.Path(opts.OutputDir))

	assets := f.Assets()
	assetPaths := make([]string, 0, len(assets))
	for rel := range assets {
		assetPaths = append(assetPaths, rel)
	}
	sort.Strings(assetPaths)
	for _, rel := range assetPaths {
		if _, err := writeOutput(opts.OutputDir, rel, assets[rel]); err != nil {
			return nil, err
		}
		result.Assets = append(result.Assets, rel)
	}

	for _, file := range in.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, err := generateDocument(f, res, file, opts)
		if err != nil {
			return nil, err
		}
		result.Documents = append(result.Documents, rel)
	}
	sort.Strings(result.Documents)

	idx, err := buildIndex(res, in.Tree, result.Documents, opts)
	if err != nil {
		return nil, err
	}
	out, err := f.RenderIndex(idx)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "render index page").
			Fatal().WithContext("file", opts.IndexFile).Build()
	}
	if _, err := writeOutput(opts.OutputDir, opts.IndexFile, out); err != nil {
		return nil, err
	}
	result.Index = opts.IndexFile
	result.Stats = res.Stats()

	slog.Info("Documentation generated",
		logfields.Generator(syntax.Name()),
		logfields.Count(result.FilesWritten()),
		slog.Int("unresolved", result.Stats.Unresolved))
	return result, nil
}

func generateDocument(f Format, res *resolver.Resolver, file *extract.File, opts Options) (string, error) {
	prefix := resolver.DocumentPrefix(file.Name)
	for i := range file.Lines {
		c := file.Lines[i].Comment
		if c == nil || *c == "" {
			continue
		}
		rewritten := res.Rewrite(*c, resolver.Site{File: file.Name, Line: i, Prefix: prefix})
		file.Lines[i].Comment = &rewritten
	}

	doc := &Document{
		Project:   opts.ProjectName,
		Name:      file.Name,
		Type:      file.Type,
		Prefix:    prefix,
		IndexHref: prefix + opts.IndexFile,
		Blocks:    Fold(file.Lines),
	}
	out, err := f.RenderDocument(doc)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "render document").
			Fatal().WithContext("file", file.Name).Build()
	}

	rel := file.Name + res.Syntax().Extension()
	if _, err := writeOutput(opts.OutputDir, rel, out); err != nil {
		return "", err
	}
	slog.Debug("Wrote document", logfields.File(file.Name), logfields.Path(rel))
	return rel, nil
}

func buildIndex(res *resolver.Resolver, tree *refs.Collection, documents []string, opts Options) (*Index, error) {
	syntax := res.Syntax()
	prefix := resolver.DocumentPrefix(opts.IndexFile)
	idx := &Index{
		Project:  opts.ProjectName,
		Prefix:   prefix,
		Revision: opts.Revision,
		RunID:    opts.RunID,
	}

	for _, report := range tree.TagsByCollection() {
		entry := IndexCollection{Name: report.Name}
		if entry.Name == "" {
			entry.Name = TopLevelName
		}
		for _, tag := range report.Anchors {
			entry.Anchors = append(entry.Anchors, IndexAnchor{
				Anchor: tag.Anchor,
				Href:   prefix + tag.Path + syntax.Extension() + "#" + syntax.Fragment(tag),
			})
		}
		idx.Collections = append(idx.Collections, entry)
	}

	filePrefix := prefix
	if filePrefix == "" {
		filePrefix = "./"
	}
	for _, rel := range documents {
		idx.Files = append(idx.Files, IndexFile{Name: rel, Href: filePrefix + rel})
	}

	readme, err := resolveReadme(res, opts, prefix)
	if err != nil {
		return nil, err
	}
	idx.Readme = readme
	return idx, nil
}

// ReadmeLines splits README content into lines, accepting CRLF line endings.
func ReadmeLines(data []byte) []string {
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
}

// resolveReadme reads the README and resolves its link tags line by line.
// Line numbers in diagnostics are 1-based. A missing README is reported, not
// fatal.
func resolveReadme(res *resolver.Resolver, opts Options, prefix string) (string, error) {
	if opts.Readme == "" {
		return "", nil
	}
	// #nosec G304 -- the README path comes from the project configuration.
	data, err := os.ReadFile(opts.Readme)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			opts.Diagnostics.Report(diagnostics.KindInvalidInput, opts.Readme, -1, "readme %s not found", opts.Readme)
			return "", nil
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read readme").
			Fatal().WithContext("path", opts.Readme).Build()
	}

	lines := ReadmeLines(data)
	for i, line := range lines {
		lines[i] = res.ReplaceLinks(line, resolver.Site{File: opts.Readme, Line: i + 1, Prefix: prefix})
	}
	return strings.Join(lines, "\n"), nil
}
