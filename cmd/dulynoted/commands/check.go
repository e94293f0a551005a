package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/linkverify"
	"git.home.luguber.info/inful/dulynoted/internal/pipeline"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Strict bool   `help:"Exit with an error when any diagnostic is reported"`
	Format string `short:"f" help:"Output format (text|json)" enum:"text,json" default:"text"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	p, cleanup := newPipeline(g, cfg, false, pipeline.WithStrict(c.Strict))
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := p.Check(ctx)
	if report != nil {
		summary := diagnostics.Summary{Diagnostics: report.Diagnostics, FilesTotal: report.Sources}
		if ferr := diagnostics.NewFormatter(c.Format).Format(os.Stdout, summary); ferr != nil {
			return ferr
		}
	}
	return err
}

// TagsCmd implements the 'tags' command.
type TagsCmd struct {
	Namespaced bool   `help:"Key anchors by their full collection path instead of the bare id used for linking"`
	Format     string `short:"f" help:"Output format (text|json)" enum:"text,json" default:"text"`
}

func (c *TagsCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	p, cleanup := newPipeline(g, cfg, true)
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()
	tree, _, err := p.Tree(ctx)
	if err != nil {
		return err
	}
	tags := tree.TopLevelTags()
	if c.Namespaced {
		tags = tree.NamespacedTags()
	}
	return writeTags(os.Stdout, tags, c.Format)
}

func writeTags(w io.Writer, tags []refs.Tag, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tags)
	}
	width := 0
	for _, t := range tags {
		width = max(width, len(t.Anchor))
	}
	for _, t := range tags {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, t.Anchor, t.Path); err != nil {
			return err
		}
	}
	return nil
}

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Strict            bool   `help:"Exit with an error when a broken link is found"`
	Format            string `short:"f" help:"Output format (text|json)" enum:"text,json" default:"text"`
	MarkdownFragments string `name:"markdown-fragments" help:"Check fragments of links into Markdown documents (auto: when HTML anchors are written)" enum:"auto,always,never" default:"auto"`
}

func (c *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	opts := linkverify.Options{MarkdownFragments: cfg.MarkdownGeneratorOptions.HTMLAnchors}
	switch c.MarkdownFragments {
	case "always":
		opts.MarkdownFragments = true
	case "never":
		opts.MarkdownFragments = false
	}
	if rel, err := filepath.Rel(cfg.OutputDir, cfg.ParseDir); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		opts.Exclude = append(opts.Exclude, rel)
	}

	ctx, cancel := signalContext()
	defer cancel()
	diag := diagnostics.NewCollector(nil)
	report, err := linkverify.New(cfg.OutputDir, opts, diag).Verify(ctx)
	if err != nil {
		return err
	}
	summary := diagnostics.Summarize(diag, report.Pages)
	if err := diagnostics.NewFormatter(c.Format).Format(os.Stdout, summary); err != nil {
		return err
	}
	if (c.Strict || cfg.Strict) && diag.HasWarnings() {
		return ferrors.ValidationError("broken links found").
			WithCause(pipeline.ErrStrictDiagnostics).
			WithContext("count", report.Broken).
			Build()
	}
	return nil
}
