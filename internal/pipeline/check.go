package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"git.home.luguber.info/inful/dulynoted/internal/config"
	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/generator"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

// stageCheck resolves every link tag of the parsed sources and the README
// against the in-memory tree. Nothing is written; outcomes land in the report
// and unresolved tags in the diagnostics.
func stageCheck(ctx context.Context, rs *RunState) error {
	cfg := rs.Config
	primary := config.GeneratorHTML
	if len(cfg.Generators) > 0 {
		primary = cfg.Generators[0]
	}
	format, err := NewFormat(primary, cfg)
	if err != nil {
		return err
	}
	syntax := format.Syntax()
	indexFile := cfg.IndexFileFor(primary)

	res := resolver.New(resolver.Options{
		AnchorPattern: cfg.Patterns().Anchor,
		LinkPattern:   cfg.Patterns().Link,
		Tags:          rs.Tree.TopLevelTags(),
		External:      cfg.ExternalReferences,
		Syntax:        syntax,
		Diagnostics:   rs.Diagnostics,
	})

	for _, f := range rs.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		site := resolver.Site{File: f.Name, Prefix: resolver.DocumentPrefix(f.Name)}
		for i, line := range f.Lines {
			if line.Comment == nil || *line.Comment == "" {
				continue
			}
			site.Line = i
			res.ReplaceLinks(*line.Comment, site)
		}
	}

	if cfg.Readme != "" {
		// #nosec G304 -- the README path comes from the project configuration.
		data, err := os.ReadFile(rs.path(cfg.Readme))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			rs.Diagnostics.Report(diagnostics.KindInvalidInput, cfg.Readme, -1, "readme %s not found", cfg.Readme)
		case err != nil:
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read readme").Fatal().Build()
		default:
			prefix := resolver.DocumentPrefix(indexFile)
			for i, line := range generator.ReadmeLines(data) {
				res.ReplaceLinks(line, resolver.Site{File: cfg.Readme, Line: i + 1, Prefix: prefix})
			}
		}
	}

	rs.Report.Links = res.Stats()
	return nil
}
