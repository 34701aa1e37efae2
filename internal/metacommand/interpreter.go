// Package metacommand applies documentation metacommands such as \ingroup,
// \since or \title to nodes of the documentation tree.
//
// The comment tokenizer is not part of this package: callers hand the
// interpreter one (command, argument) pair at a time, in source order.
package metacommand

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/metrics"
)

// Interpreter applies metacommands within one Run.
type Interpreter struct {
	run      *Run
	logger   *slog.Logger
	reporter diag.Reporter
	recorder metrics.Recorder
	aliases  map[string]Command
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithReporter sets where warnings go.
func WithReporter(r diag.Reporter) Option {
	return func(in *Interpreter) { in.reporter = r }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(in *Interpreter) { in.recorder = r }
}

// WithAliases lets alternative spellings stand for a metacommand, e.g.
// {"obsoleted": "obsolete"}.
func WithAliases(aliases map[string]string) Option {
	return func(in *Interpreter) {
		for spelled, canonical := range aliases {
			in.aliases[spelled] = Command(canonical)
		}
	}
}

// NewInterpreter returns an interpreter bound to run.
func NewInterpreter(run *Run, opts ...Option) *Interpreter {
	in := &Interpreter{
		run:      run,
		logger:   slog.Default(),
		reporter: diag.Discard{},
		recorder: metrics.NoopRecorder{},
		aliases:  make(map[string]Command),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run returns the run the interpreter writes to.
func (in *Interpreter) Run() *Run { return in.run }

// Resolve maps an alias to its metacommand. Names that are not aliases are
// returned unchanged.
func (in *Interpreter) Resolve(name string) Command {
	if c, ok := in.aliases[name]; ok {
		return c
	}
	return Command(name)
}

// Apply interprets one metacommand against node and tree. It returns false,
// touching nothing, when command is not a common metacommand. Misuse such as
// \title on a non-page node is reported as a warning and still counts as
// handled.
func (in *Interpreter) Apply(ctx context.Context, loc diag.Location, command, arg string, node doctree.Node, tree *doctree.Tree) bool {
	c := in.Resolve(command)
	h, ok := commonCommands[c]
	if !ok {
		return false
	}

	in.recorder.IncMetacommand(string(c))
	in.logger.Debug("Applying metacommand",
		logfields.Command(string(c)),
		logfields.Node(node.Name()),
		logfields.File(loc.File),
		logfields.Line(loc.Line))

	h(in, request{ctx: ctx, loc: loc, command: c, arg: arg, node: node, tree: tree})
	return true
}

func (in *Interpreter) ignored(r request) {
	in.reporter.Warning(r.loc, diag.KindWrongNode, fmt.Sprintf("Ignored '\\%s'", r.command))
}

func (in *Interpreter) compat(r request) {
	in.reporter.Warning(r.loc, diag.KindLegacyCommand,
		"\\compat command used, but Qt3 compatibility is no longer supported")
	r.node.SetStatus(doctree.StatusCompat)
}

func (in *Interpreter) internal(r request) {
	if in.run.ShowInternal {
		return
	}
	r.node.SetAccess(doctree.AccessPrivate)
	r.node.SetStatus(doctree.StatusInternal)
}

// inQmlModule only accepts QML types; anything else is left untouched.
func (in *Interpreter) inQmlModule(r request) {
	qcn, ok := doctree.AsQmlClass(r.node)
	if !ok {
		in.ignored(r)
		return
	}
	qcn.SetQmlModuleName(r.arg)
	r.tree.AddToQmlModule(qcn, r.arg)
	in.run.qmlClasses[QmlClassKey(qcn.QmlModuleIdentifier(), qcn.Name())] = qcn
}

func (in *Interpreter) subtitle(r request) {
	page, ok := doctree.AsPage(r.node)
	if !ok {
		in.ignored(r)
		return
	}
	page.SetSubtitle(r.arg)
}

func (in *Interpreter) title(r request) {
	page, ok := doctree.AsPage(r.node)
	if !ok {
		in.ignored(r)
		return
	}
	page.SetTitle(r.arg)
	if page.IsExample() {
		in.run.examples[page.Title()] = page
	}
	if err := in.run.titles.Put(r.ctx, page.Name(), r.arg); err != nil {
		in.reporter.Warning(r.loc, diag.KindTitleIndex,
			fmt.Sprintf("Cannot record title of '%s': %v", page.Name(), err))
	}
}
