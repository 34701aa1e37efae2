// Package pipeline drives a documentation run: it discovers header and
// source files, hands each to the parser plugin that claims it and keeps the
// plugin lifecycle around the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/metrics"
	"git.home.luguber.info/inful/docparse/internal/parser"
	"git.home.luguber.info/inful/docparse/internal/util/sets"
)

// Stage names a phase of the run.
type Stage string

const (
	StageHeaders Stage = "headers"
	StageSources Stage = "sources"
)

// Pipeline runs the parse phase of a documentation run.
type Pipeline struct {
	cfg      *config.Config
	registry *parser.Registry
	logger   *slog.Logger
	reporter diag.Reporter
	recorder metrics.Recorder
}

// PipelineOption configures pipeline behavior.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// WithReporter sets where non-fatal parser failures are reported.
func WithReporter(r diag.Reporter) PipelineOption {
	return func(p *Pipeline) { p.reporter = r }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) PipelineOption {
	return func(p *Pipeline) { p.recorder = r }
}

// NewPipeline creates a pipeline over the parsers in registry.
func NewPipeline(cfg *config.Config, registry *parser.Registry, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		registry: registry,
		logger:   slog.Default(),
		reporter: diag.Discard{},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Result summarizes one run.
type Result struct {
	RunID    string
	Tree     *doctree.Tree
	Parsed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// Run initializes every parser, parses all header files and then all source
// files, and terminates the parsers again. A fatal error stops the run; other
// parser failures are reported and the file is counted as failed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Tree: doctree.NewTree()}
	logger := p.logger.With(logfields.RunID(res.RunID))

	// Parsers that did initialize still get terminated when another fails.
	defer p.registry.TerminateAll()
	if err := p.registry.InitializeAll(p.cfg); err != nil {
		return res, err
	}

	discovery := NewDiscovery(p.cfg.ExcludeDirs, logger)

	headers, err := discovery.Files(p.cfg.HeaderDirs)
	if err != nil {
		return res, err
	}
	if err := p.runStage(ctx, logger, StageHeaders, headers, res); err != nil {
		return res, err
	}

	sources, err := discovery.Files(p.cfg.SourceDirs)
	if err != nil {
		return res, err
	}
	if err := p.runStage(ctx, logger, StageSources, sources, res); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	p.recorder.ObserveRunDuration(res.Duration)
	logger.Info("Documentation run complete",
		slog.Int("parsed", res.Parsed),
		slog.Int("failed", res.Failed),
		slog.Int("skipped", res.Skipped),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (p *Pipeline) runStage(ctx context.Context, logger *slog.Logger, stage Stage, files []string, res *Result) error {
	logger = logger.With(logfields.Stage(string(stage)))
	logger.Info("Parsing files", logfields.Count(len(files)))

	used := sets.NewOrdered[*parser.Handle]()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		h, ok := p.registry.Lookup(path, stage == StageHeaders)
		if !ok {
			logger.Debug("No parser for file", logfields.Path(path))
			p.recorder.IncParsedFile("none", metrics.ResultSkipped)
			res.Skipped++
			continue
		}
		used.Add(h)

		pp := h.Parser()
		if err := p.parseFile(ctx, logger, stage, pp, path, res.Tree); err != nil {
			if errors.IsFatal(err) || ctx.Err() != nil {
				return err
			}
			p.reporter.Warning(diag.At(path), diag.KindParser, err.Error())
			res.Failed++
			continue
		}
		res.Parsed++
	}

	for _, h := range used.Values() {
		pp := h.Parser()
		var err error
		if stage == StageHeaders {
			err = parser.DoneParsingHeaderFiles(ctx, pp, res.Tree)
		} else {
			err = pp.DoneParsingSourceFiles(ctx, res.Tree)
		}
		if err != nil {
			return errors.WrapError(parser.NewParserError(pp.Language(), "done parsing "+string(stage), err),
				errors.CategoryParser, fmt.Sprintf("%s parser failed to finish %s", pp.Language(), stage)).
				Fatal().
				Build()
		}
	}
	return nil
}

func (p *Pipeline) parseFile(ctx context.Context, logger *slog.Logger, stage Stage, pp parser.Parser, path string, tree *doctree.Tree) error {
	start := time.Now()
	loc := diag.At(path)

	var err error
	if stage == StageHeaders {
		err = parser.ParseHeaderFile(ctx, pp, loc, path, tree)
	} else {
		err = pp.ParseSourceFile(ctx, loc, path, tree)
	}

	elapsed := time.Since(start)
	p.recorder.ObserveParseDuration(pp.Language(), elapsed)
	if err != nil {
		p.recorder.IncParsedFile(pp.Language(), metrics.ResultFailed)
		logger.Error("Failed to parse file",
			logfields.Language(pp.Language()),
			logfields.Path(path),
			logfields.Error(err))
		return err
	}
	p.recorder.IncParsedFile(pp.Language(), metrics.ResultSuccess)
	logger.Debug("Parsed file",
		logfields.Language(pp.Language()),
		logfields.Path(path),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return nil
}
