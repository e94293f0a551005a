package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/dulynoted/internal/config"
	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/docs"
	derrors "git.home.luguber.info/inful/dulynoted/internal/docs/errors"
	"git.home.luguber.info/inful/dulynoted/internal/extract"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
	"git.home.luguber.info/inful/dulynoted/internal/scanner"
)

// stageParse discovers and extracts the sources, builds the anchor tree and,
// for persisting runs, rewrites the parse cache from scratch.
func stageParse(ctx context.Context, rs *RunState) error {
	cfg := rs.Config
	discovery := docs.NewDiscovery(rs.Root, []string{cfg.OutputDir, cfg.ParseDir}, rs.Diagnostics)
	sources, err := discovery.Discover(cfg.Files)
	if err != nil {
		if errors.Is(err, derrors.ErrNoSourcesFound) {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "no source files matched the configured files").
				Fatal().Build()
		}
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "source discovery failed").Fatal().Build()
	}
	rs.Sources = sources
	rs.Report.Sources = len(sources)

	patterns := extractPatterns(cfg.Patterns())
	anchorRE := cfg.Patterns().Anchor
	tree := refs.NewCollection("")
	files := make([]*extract.File, 0, len(sources))
	anchors := 0
	for _, name := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := extract.ReadFile(rs.Root, name, patterns)
		if err != nil {
			rs.Diagnostics.Report(diagnostics.KindInvalidInput, name, -1, "cannot read %s: %v", name, err)
			continue
		}
		for i, line := range f.Lines {
			if line.Comment == nil || *line.Comment == "" {
				continue
			}
			anchors += scanner.DeclareAnchors(anchorRE, *line.Comment, name, i, tree, rs.Diagnostics)
		}
		files = append(files, f)
		slog.Debug("Parsed source", logfields.File(name), logfields.Count(len(f.Lines)))
	}

	rs.Tree = tree
	rs.Files = files
	rs.Report.Anchors = anchors
	slog.Info("Sources parsed", logfields.Count(len(files)), slog.Int("anchors", anchors))

	if !rs.persist {
		return nil
	}
	return writeCache(rs)
}

func writeCache(rs *RunState) error {
	if err := rs.cache.Remove(); err != nil {
		return err
	}
	if err := rs.workspace.Create(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create parse directory").Fatal().Build()
	}
	if err := rs.cache.WriteReferences(rs.Tree); err != nil {
		return err
	}
	if err := rs.cache.WriteExternal(rs.Config.ExternalReferences); err != nil {
		return err
	}
	for _, f := range rs.Files {
		if err := rs.cache.WriteFile(f); err != nil {
			return err
		}
	}
	slog.Debug("Parse cache written", logfields.Path(rs.cache.Dir()), logfields.Count(len(rs.Files)))
	return nil
}

func extractPatterns(p *config.Patterns) extract.Patterns {
	return extract.Patterns{
		Line:       p.Comment,
		BlockOpen:  p.LongCommentOpen,
		BlockLine:  p.LongCommentLine,
		BlockClose: p.LongCommentClose,
	}
}
