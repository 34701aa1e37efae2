// Package langs provides the built-in parser plugins. They recognize files by
// name, resolve each file's output subdirectory and record a file page in the
// tree; the syntax of each language is handled elsewhere.
package langs

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/outputdir"
	"git.home.luguber.info/inful/docparse/internal/parser"
)

// Option configures a built-in plugin.
type Option func(*filePlugin)

// WithReporter sets where output path warnings go.
func WithReporter(r diag.Reporter) Option {
	return func(p *filePlugin) { p.reporter = r }
}

// WithLogger sets the plugin logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *filePlugin) { p.logger = l }
}

func shareResolver(s *sharedResolver) Option {
	return func(p *filePlugin) { p.shared = s }
}

// sharedResolver holds the run-wide output subdirectory resolver. It is
// created by the first plugin to initialize and dropped when the last one
// terminates.
type sharedResolver struct {
	mu       sync.Mutex
	resolver *outputdir.Resolver
	users    int
}

func (s *sharedResolver) acquire(cfg *config.Config, opts ...outputdir.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == 0 {
		s.resolver = outputdir.New(cfg.BaseDir, cfg.OutputDir, opts...)
	}
	s.users++
}

func (s *sharedResolver) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == 0 {
		return
	}
	s.users--
	if s.users == 0 {
		s.resolver = nil
	}
}

func (s *sharedResolver) get() *outputdir.Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver
}

// filePlugin is the behaviour shared by the built-in plugins.
type filePlugin struct {
	language string
	sources  []string

	reporter diag.Reporter
	logger   *slog.Logger
	shared   *sharedResolver
	bound    bool
	files    int
}

func newFilePlugin(language string, sources []string, opts []Option) filePlugin {
	p := filePlugin{
		language: language,
		sources:  sources,
		reporter: diag.Discard{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.shared == nil {
		p.shared = &sharedResolver{}
	}
	return p
}

func (p *filePlugin) Language() string { return p.language }

func (p *filePlugin) SourceFileNameFilter() []string { return p.sources }

// InitializeParser binds the plugin to the configured base and output dirs.
func (p *filePlugin) InitializeParser(cfg *config.Config) error {
	if p.bound {
		p.shared.release()
	}
	p.shared.acquire(cfg,
		outputdir.WithReporter(p.reporter),
		outputdir.WithLogger(p.logger))
	p.bound = true
	p.files = 0
	return nil
}

func (p *filePlugin) TerminateParser() error {
	p.logger.Debug("Parser terminated", logfields.Language(p.language), logfields.Count(p.files))
	if p.bound {
		p.shared.release()
		p.bound = false
	}
	return nil
}

func (p *filePlugin) ParseSourceFile(ctx context.Context, loc diag.Location, path string, tree *doctree.Tree) error {
	return p.parse(ctx, loc, path, tree, false)
}

func (p *filePlugin) DoneParsingSourceFiles(context.Context, *doctree.Tree) error {
	return nil
}

// Resolver returns the output subdirectory resolver, or nil before
// InitializeParser. Plugins registered together share one resolver.
func (p *filePlugin) Resolver() *outputdir.Resolver { return p.shared.get() }

func (p *filePlugin) parse(ctx context.Context, loc diag.Location, path string, tree *doctree.Tree, header bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if resolver := p.shared.get(); resolver != nil {
		if _, err := resolver.Resolve(loc, path); err != nil {
			return err
		}
	}
	tree.AddFile(path, header)
	p.files++
	return nil
}

// Cpp handles C++ headers and sources, plus .qdoc documentation files.
type Cpp struct {
	filePlugin
	headers []string
}

// NewCpp returns the C++ plugin.
func NewCpp(opts ...Option) *Cpp {
	return &Cpp{
		filePlugin: newFilePlugin("Cpp",
			[]string{"*.c++", "*.cc", "*.cpp", "*.cxx", "*.mm", "*.qdoc"}, opts),
		headers: []string{"*.ch", "*.h", "*.h++", "*.hh", "*.hpp", "*.hxx"},
	}
}

func (c *Cpp) HeaderFileNameFilter() []string { return c.headers }

func (c *Cpp) ParseHeaderFile(ctx context.Context, loc diag.Location, path string, tree *doctree.Tree) error {
	return c.parse(ctx, loc, path, tree, true)
}

func (c *Cpp) DoneParsingHeaderFiles(context.Context, *doctree.Tree) error {
	return nil
}

// QML handles QML documents.
type QML struct {
	filePlugin
}

// NewQML returns the QML plugin.
func NewQML(opts ...Option) *QML {
	return &QML{filePlugin: newFilePlugin("QML", []string{"*.qml"}, opts)}
}

// JavaScript handles JavaScript files.
type JavaScript struct {
	filePlugin
}

// NewJavaScript returns the JavaScript plugin.
func NewJavaScript(opts ...Option) *JavaScript {
	return &JavaScript{filePlugin: newFilePlugin("JavaScript", []string{"*.js"}, opts)}
}

// RegisterBuiltins registers the C++, QML and JavaScript plugins, in that
// order, so JavaScript is consulted first. The three plugins share one output
// subdirectory resolver, so the current subdirectory is tracked per run.
func RegisterBuiltins(reg *parser.Registry, opts ...Option) ([]*parser.Handle, error) {
	opts = append(slices.Clone(opts), shareResolver(&sharedResolver{}))
	plugins := []parser.Parser{NewCpp(opts...), NewQML(opts...), NewJavaScript(opts...)}
	handles := make([]*parser.Handle, 0, len(plugins))
	for _, p := range plugins {
		h, err := reg.Register(p)
		if err != nil {
			for _, registered := range handles {
				registered.Release()
			}
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}
