package commands

import (
	"context"
	"io"
	"os"

	"git.home.luguber.info/inful/docparse/internal/annotate"
	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/metacommand"
	"git.home.luguber.info/inful/docparse/internal/titleindex"
)

// AnnotateCmd implements the 'annotate' command.
type AnnotateCmd struct {
	Manifest string `arg:"" type:"existingfile" help:"YAML manifest of nodes and their metacommands"`
	Output   string `short:"o" help:"Write the report to this file instead of stdout"`
}

func (a *AnnotateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, false)
	if err != nil {
		return err
	}

	f, err := os.Open(a.Manifest)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open manifest").
			WithContext("path", a.Manifest).
			Build()
	}
	defer func() { _ = f.Close() }()
	manifest, err := annotate.ReadManifest(f)
	if err != nil {
		return err
	}

	collector := &diag.Collector{}
	env, err := newEnvironment(cfg, root.Verbose, collector)
	if err != nil {
		return err
	}
	defer env.Close()

	titles, err := titleindex.Open(cfg.Index.Path)
	if err != nil {
		return err
	}
	run := metacommand.NewRun(cfg.ShowInternal, titles)
	defer func() {
		if err := run.Close(); err != nil {
			env.logger.Warn("Failed to close title index", logfields.Error(err))
		}
	}()
	env.logger.Debug("Annotating manifest", logfields.RunID(run.ID.String()), logfields.Path(a.Manifest))

	in := metacommand.NewInterpreter(run,
		metacommand.WithLogger(env.logger),
		metacommand.WithReporter(env.reporter),
		metacommand.WithRecorder(env.recorder),
		metacommand.WithAliases(cfg.Aliases))

	report, _, err := annotate.New(in, collector, env.logger).Apply(context.Background(), manifest)
	if err != nil {
		return err
	}
	env.flushMetrics()

	var out io.Writer = g.Stdout
	if a.Output != "" {
		file, err := os.Create(a.Output)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create report file").
				WithContext("path", a.Output).
				Build()
		}
		defer func() { _ = file.Close() }()
		out = file
	}
	return report.Write(out)
}
