package parser

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/logfields"
)

// Registry holds the live parser plugins. The most recently registered
// parser comes first, so a later plugin overrides an earlier one whose
// filters overlap. Registrations are tracked by handle, so parsers never need
// to be comparable.
type Registry struct {
	mu      sync.RWMutex
	entries []*Handle
	logger  *slog.Logger
}

// NewRegistry creates a new empty parser registry. A nil logger means
// slog.Default at the time of each log call.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// Handle is the registration of one parser. Releasing it removes the parser
// from the registry.
type Handle struct {
	once     sync.Once
	registry *Registry
	parser   Parser
}

// Parser returns the registered parser.
func (h *Handle) Parser() Parser { return h.parser }

// Release unregisters the parser. Calling it more than once is a no-op.
func (h *Handle) Release() {
	h.once.Do(func() { h.registry.unregister(h) })
}

// Register puts p in front of every parser already registered.
func (r *Registry) Register(p Parser) (*Handle, error) {
	if p == nil {
		return nil, ErrNilParser
	}
	if p.Language() == "" {
		return nil, ErrNoLanguage
	}

	h := &Handle{registry: r, parser: p}
	r.mu.Lock()
	r.entries = slices.Insert(r.entries, 0, h)
	r.mu.Unlock()

	r.log().Debug("Registered parser", logfields.Language(p.Language()))
	return h, nil
}

// MustRegister is Register for package initialization; it panics on error.
func (r *Registry) MustRegister(p Parser) *Handle {
	h, err := r.Register(p)
	if err != nil {
		panic(err)
	}
	return h
}

// Unregister removes the registration behind h. Handles from another registry
// are ignored.
func (r *Registry) Unregister(h *Handle) {
	if h != nil && h.registry == r {
		h.Release()
	}
}

func (r *Registry) unregister(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = slices.DeleteFunc(r.entries, func(e *Handle) bool { return e == h })
}

// Handles returns the live registrations in lookup order.
func (r *Registry) Handles() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries)
}

// Parsers returns the registered parsers in lookup order.
func (r *Registry) Parsers() []Parser {
	handles := r.Handles()
	out := make([]Parser, len(handles))
	for i, h := range handles {
		out[i] = h.parser
	}
	return out
}

// Languages returns the language names in lookup order.
func (r *Registry) Languages() []string {
	parsers := r.Parsers()
	out := make([]string, len(parsers))
	for i, p := range parsers {
		out[i] = p.Language()
	}
	return out
}

// Count returns the number of registered parsers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// InitializeAll runs every parser's InitializeParser in registry order. It
// must be called after configuration is loaded and before any file is
// parsed. A failing parser does not keep later parsers from initializing;
// the failures are joined into the returned error.
func (r *Registry) InitializeAll(cfg *config.Config) error {
	var errs []error
	for _, p := range r.Parsers() {
		lc, ok := p.(Lifecycle)
		if !ok {
			continue
		}
		if err := lc.InitializeParser(cfg); err != nil {
			r.log().Error("Parser initialization failed", logfields.Language(p.Language()), logfields.Error(err))
			errs = append(errs, fmt.Errorf("%w: %w", ErrInitializeFailed, NewParserError(p.Language(), "initialize", err)))
		}
	}
	return stderrors.Join(errs...)
}

// TerminateAll runs every parser's TerminateParser. Failures are logged and
// otherwise ignored.
func (r *Registry) TerminateAll() {
	for _, p := range r.Parsers() {
		lc, ok := p.(Lifecycle)
		if !ok {
			continue
		}
		if err := lc.TerminateParser(); err != nil {
			r.log().Warn("Parser termination failed", logfields.Language(p.Language()), logfields.Error(err))
		}
	}
}

// ForLanguage returns the first parser whose language equals name.
func (r *Registry) ForLanguage(name string) (Parser, bool) {
	for _, p := range r.Parsers() {
		if p.Language() == name {
			return p, true
		}
	}
	return nil, false
}

// ForHeaderFile returns the first parser whose header patterns match the
// bare file name of path.
func (r *Registry) ForHeaderFile(path string) (Parser, bool) {
	return parserOf(r.Lookup(path, true))
}

// ForSourceFile returns the first parser whose source patterns match the
// bare file name of path.
func (r *Registry) ForSourceFile(path string) (Parser, bool) {
	return parserOf(r.Lookup(path, false))
}

// Lookup returns the registration of the first parser claiming path, using
// the header patterns when header is set and the source patterns otherwise.
func (r *Registry) Lookup(path string, header bool) (*Handle, bool) {
	name := baseName(path)
	for _, h := range r.Handles() {
		patterns := h.parser.SourceFileNameFilter()
		if header {
			patterns = HeaderFileNameFilter(h.parser)
		}
		if matchAny(patterns, name) {
			return h, true
		}
	}
	return nil, false
}

func parserOf(h *Handle, ok bool) (Parser, bool) {
	if !ok {
		return nil, false
	}
	return h.parser, true
}

// defaultRegistry lets plugins self-register from init functions.
var defaultRegistry = NewRegistry(nil)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds p to the process-wide registry.
func Register(p Parser) (*Handle, error) {
	return defaultRegistry.Register(p)
}
