package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/metrics"
	"git.home.luguber.info/inful/docparse/internal/parser"
	"git.home.luguber.info/inful/docparse/internal/parser/langs"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docparse.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run      RunCmd      `cmd:"" help:"Parse the configured header and source directories"`
	Watch    WatchCmd    `cmd:"" help:"Run, then re-run whenever input files change"`
	Parsers  ParsersCmd  `cmd:"" help:"List the registered parser plugins and their file patterns"`
	Annotate AnnotateCmd `cmd:"" help:"Apply metacommands from a YAML manifest and print the node states"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it installs a default logger until the
// configuration's logging section is known.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig loads the configuration file. When required is false a missing
// file yields the defaults.
func loadConfig(path string, required bool) (*config.Config, error) {
	if !required {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// environment wires the run-wide collaborators built from configuration.
type environment struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	prom     *metrics.PrometheusRecorder
	reporter diag.Reporter
	registry *parser.Registry
	handles  []*parser.Handle
}

// newEnvironment installs the configured logger and registers the built-in
// parsers in the default registry. Close releases them again. A non-nil
// collector sees every warning before it is logged.
func newEnvironment(cfg *config.Config, verbose bool, collector *diag.Collector) (*environment, error) {
	logger := cfg.Logging.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	env := &environment{
		cfg:      cfg,
		logger:   logger,
		recorder: metrics.NoopRecorder{},
		registry: parser.DefaultRegistry(),
	}
	if cfg.Metrics.Textfile != "" {
		env.prom = metrics.NewPrometheusRecorder(nil)
		env.recorder = env.prom
	}

	env.reporter = diag.NewLogReporter(logger, env.recorder)
	if collector != nil {
		collector.Next = env.reporter
		env.reporter = collector
	}

	handles, err := langs.RegisterBuiltins(env.registry,
		langs.WithReporter(env.reporter),
		langs.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	env.handles = handles
	return env, nil
}

// flushMetrics writes the metrics textfile when one is configured.
func (e *environment) flushMetrics() {
	if e.prom == nil {
		return
	}
	if err := e.prom.WriteTextfile(e.cfg.Metrics.Textfile); err != nil {
		e.logger.Warn("Failed to write metrics textfile", logfields.Path(e.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func (e *environment) Close() {
	for _, h := range e.handles {
		h.Release()
	}
}
