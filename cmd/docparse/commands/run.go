package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/pipeline"
)

// RunCmd implements the 'run' command.
type RunCmd struct{}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, true)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cfg, root.Verbose, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := env.runPipeline(context.Background())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Stdout, "Parsed %d files (%d failed, %d skipped) in %s\n",
		res.Parsed, res.Failed, res.Skipped, res.Duration.Round(time.Millisecond))
	return nil
}

// runPipeline performs one documentation run and flushes metrics.
func (e *environment) runPipeline(ctx context.Context) (*pipeline.Result, error) {
	p := pipeline.NewPipeline(e.cfg, e.registry,
		pipeline.WithLogger(e.logger),
		pipeline.WithReporter(e.reporter),
		pipeline.WithRecorder(e.recorder))
	res, err := p.Run(ctx)
	e.flushMetrics()
	return res, err
}

// inputDirs returns the header and source directories, header dirs first.
func inputDirs(cfg *config.Config) []string {
	dirs := make([]string, 0, len(cfg.HeaderDirs)+len(cfg.SourceDirs))
	dirs = append(dirs, cfg.HeaderDirs...)
	return append(dirs, cfg.SourceDirs...)
}
