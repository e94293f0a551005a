package commands

import (
	"fmt"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/dulynoted/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Strict      bool   `help:"Fail when any diagnostic is reported"`
	MetricsFile string `name:"metrics-file" help:"Write run metrics in Prometheus text format to this file" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if b.MetricsFile != "" && g.Registry == nil {
		g.Registry = prom.NewRegistry()
	}
	p, cleanup := newPipeline(g, cfg, true, pipeline.WithStrict(b.Strict))
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := p.Build(ctx)
	if b.MetricsFile != "" {
		if werr := prom.WriteToTextfile(b.MetricsFile, g.Registry); werr != nil {
			fmt.Fprintf(os.Stderr, "cannot write metrics file: %v\n", werr)
		}
	}
	if err != nil {
		return err
	}
	printRunSummary(report)
	return nil
}

// ParseCmd implements the 'parse' command.
type ParseCmd struct {
	Strict bool `help:"Fail when any diagnostic is reported"`
}

func (c *ParseCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	p, cleanup := newPipeline(g, cfg, true, pipeline.WithStrict(c.Strict))
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := p.Parse(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d files, %d anchors into %s\n", report.Sources, report.Anchors, cfg.ParseDir)
	return nil
}

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Strict bool `help:"Fail when any diagnostic is reported"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	p, cleanup := newPipeline(g, cfg, true, pipeline.WithStrict(c.Strict))
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := p.Generate(ctx)
	if err != nil {
		return err
	}
	printRunSummary(report)
	return nil
}

func printRunSummary(r *pipeline.RunReport) {
	for _, g := range r.Generators {
		fmt.Printf("%s: %d files written, index %s\n", g.Name, g.FilesWritten, g.Index)
	}
	fmt.Printf("%d sources, %d anchors, %d links resolved, %d unresolved (%s)\n",
		r.Sources, r.Anchors, r.Links.Internal+r.Links.External, r.Links.Unresolved, r.Outcome)
}
