package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
	"git.home.luguber.info/inful/docparse/internal/pipeline"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before re-running after a change" default:"2s"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, true)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cfg, root.Verbose, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A fatal error such as an uncreatable output directory ends the watch.
	var fatal error
	runOnce := func(ctx context.Context) error {
		_, err := env.runPipeline(ctx)
		if errors.IsFatal(err) {
			fatal = err
			stop()
		}
		return err
	}
	if err := runOnce(ctx); err != nil {
		return err
	}

	watcher, err := pipeline.NewWatcher(inputDirs(cfg), cfg.ExcludeDirs, runOnce,
		pipeline.WithDebounce(w.Debounce),
		pipeline.WithWatchLogger(env.logger))
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to start watcher").Build()
	}
	if err := watcher.Run(ctx); err != nil {
		return err
	}
	return fatal
}
