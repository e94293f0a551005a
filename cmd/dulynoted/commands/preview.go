package commands

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/dulynoted/internal/preview"
)

// PreviewCmd serves the output directory and rebuilds on source changes.
type PreviewCmd struct {
	Port int `name:"port" help:"Preview server port (overrides preview.port)"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if p.Port > 0 {
		cfg.Preview.Port = p.Port
	}
	if g.Registry == nil {
		g.Registry = prom.NewRegistry()
	}
	pl, cleanup := newPipeline(g, cfg, true)
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()
	return preview.New(cfg, pl, preview.Options{Registry: g.Registry}).Run(ctx)
}
