package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/dulynoted/internal/config"
	"git.home.luguber.info/inful/dulynoted/internal/events"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/metrics"
	"git.home.luguber.info/inful/dulynoted/internal/pipeline"
)

// Global carries state shared by every command.
type Global struct {
	// Registry collects run metrics when metrics are enabled.
	Registry *prom.Registry
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"duly-noted.json" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json); defaults to the configuration"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Parse sources, generate documentation and remove the parse cache"`
	Parse    ParseCmd    `cmd:"" help:"Parse sources into the parse cache"`
	Generate GenerateCmd `cmd:"" help:"Generate documentation from an existing parse cache"`
	Check    CheckCmd    `cmd:"" help:"Resolve every link tag without writing output"`
	Tags     TagsCmd     `cmd:"" help:"List the declared anchors"`
	Verify   VerifyCmd   `cmd:"" help:"Check generated documentation for broken internal links"`
	Preview  PreviewCmd  `cmd:"" help:"Build, serve and rebuild the documentation on change"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(c.Verbose, c.LogFormat, config.LogLevelInfo)
	return nil
}

// setupLogging installs the default slog handler. --verbose wins over the
// configured level and an explicit --log-format over the configured format.
func setupLogging(verbose bool, format string, level config.LogLevel) {
	lvl := slog.LevelInfo
	switch {
	case verbose:
		lvl = slog.LevelDebug
	case level == config.LogLevelDebug:
		lvl = slog.LevelDebug
	case level == config.LogLevelWarn:
		lvl = slog.LevelWarn
	case level == config.LogLevelError:
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == string(config.LogFormatJSON) {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the configuration and applies its logging section.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	format := root.LogFormat
	if format == "" {
		format = string(cfg.Logging.Format)
	}
	setupLogging(root.Verbose, format, cfg.Logging.Level)
	return cfg, nil
}

// newPipeline wires metrics and event publication from cfg. The returned
// cleanup closes the publisher.
func newPipeline(g *Global, cfg *config.Config, logDiagnostics bool, opts ...pipeline.PipelineOption) (*pipeline.Pipeline, func()) {
	if cfg.Metrics.Enabled || g.Registry != nil {
		if g.Registry == nil {
			g.Registry = prom.NewRegistry()
		}
		opts = append(opts, pipeline.WithRecorder(metrics.NewPrometheusRecorder(g.Registry)))
	}
	if logDiagnostics {
		opts = append(opts, pipeline.WithDiagnosticsLogger(slog.Default()))
	}

	cleanup := func() {}
	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			slog.Warn("Run summaries will not be published", logfields.Error(err))
		} else {
			opts = append(opts, pipeline.WithPublisher(pub))
			cleanup = pub.Close
		}
	}
	return pipeline.New(cfg, opts...), cleanup
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
