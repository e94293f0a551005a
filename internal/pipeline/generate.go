package pipeline

import (
	"context"

	"git.home.luguber.info/inful/dulynoted/internal/config"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/generator"
)

// stageGenerate renders every configured generator from the parse cache. The
// cache is reloaded per generator because rendering rewrites the line maps.
func stageGenerate(ctx context.Context, rs *RunState) error {
	cfg := rs.Config
	revision := ""
	if rs.revision != nil {
		revision = rs.revision(rs.Root)
	}
	rs.Report.Revision = revision

	for _, g := range cfg.Generators {
		format, err := NewFormat(g, cfg)
		if err != nil {
			return err
		}
		tree, err := rs.cache.ReadReferences()
		if err != nil {
			return err
		}
		external, err := rs.cache.ReadExternal()
		if err != nil {
			return err
		}
		files, err := rs.cache.ReadFiles(rs.Diagnostics)
		if err != nil {
			return err
		}
		if rs.Tree == nil {
			rs.Tree = tree
		}
		if rs.Report.Sources == 0 {
			rs.Report.Sources = len(files)
		}
		if rs.Report.Anchors == 0 {
			rs.Report.Anchors = tree.AnchorCount()
		}

		readme := ""
		if cfg.Readme != "" {
			readme = rs.path(cfg.Readme)
		}
		result, err := generator.Generate(ctx, format, generator.Input{
			Tree:     tree,
			External: external,
			Files:    files,
		}, generator.Options{
			ProjectName:   cfg.ProjectName,
			OutputDir:     rs.path(cfg.OutputDir),
			IndexFile:     cfg.IndexFileFor(g),
			Readme:        readme,
			Revision:      revision,
			RunID:         rs.RunID,
			AnchorPattern: cfg.Patterns().Anchor,
			LinkPattern:   cfg.Patterns().Link,
			Diagnostics:   rs.Diagnostics,
		})
		if err != nil {
			return err
		}
		rs.Report.addGenerator(GeneratorReport{
			Name:         string(g),
			Documents:    result.Documents,
			Index:        result.Index,
			FilesWritten: result.FilesWritten(),
			Stats:        result.Stats,
		})
	}
	return nil
}

// NewFormat returns the output format for g.
func NewFormat(g config.Generator, cfg *config.Config) (generator.Format, error) {
	switch g {
	case config.GeneratorHTML:
		format, err := generator.NewHTMLFormat()
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "parse page templates").Fatal().Build()
		}
		return format, nil
	case config.GeneratorMarkdown:
		opts := cfg.MarkdownGeneratorOptions
		return generator.NewMarkdownFormat(generator.MarkdownOptions{
			HTMLAnchors:   opts.HTMLAnchors,
			GitHubAnchors: opts.GitHubMarkdownAnchors,
			FrontMatter:   opts.FrontMatter,
		}), nil
	default:
		return nil, ferrors.ValidationError("unknown generator").WithContext("generator", string(g)).Build()
	}
}
