// Package parser provides the registry of per-language source parser plugins
// and selects the plugin responsible for a given file.
//
// A plugin implements Parser and may add the optional HeaderFilterer,
// HeaderParser and Lifecycle capabilities. Missing capabilities fall back to
// the defaults applied by the package helpers: header patterns default to the
// source patterns and header parsing delegates to source parsing.
package parser

import (
	"context"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
)

// Parser is the contract every language plugin implements.
type Parser interface {
	// Language names the language, e.g. "Cpp" or "QML".
	Language() string

	// SourceFileNameFilter returns case-insensitive wildcard patterns matched
	// against bare file names.
	SourceFileNameFilter() []string

	// ParseSourceFile reads path and adds what it documents to tree.
	ParseSourceFile(ctx context.Context, loc diag.Location, path string, tree *doctree.Tree) error

	// DoneParsingSourceFiles is called once after the last source file.
	DoneParsingSourceFiles(ctx context.Context, tree *doctree.Tree) error
}

// HeaderFilterer is implemented by parsers whose header patterns differ from
// their source patterns.
type HeaderFilterer interface {
	HeaderFileNameFilter() []string
}

// HeaderParser is implemented by parsers that treat header files differently
// from source files.
type HeaderParser interface {
	ParseHeaderFile(ctx context.Context, loc diag.Location, path string, tree *doctree.Tree) error
	DoneParsingHeaderFiles(ctx context.Context, tree *doctree.Tree) error
}

// Lifecycle is implemented by parsers that need setup once configuration is
// loaded, or cleanup at the end of the run.
type Lifecycle interface {
	InitializeParser(cfg *config.Config) error
	TerminateParser() error
}

// BaseParser provides no-op lifecycle hooks for embedding.
type BaseParser struct{}

// InitializeParser is a no-op default implementation.
func (BaseParser) InitializeParser(*config.Config) error { return nil }

// TerminateParser is a no-op default implementation.
func (BaseParser) TerminateParser() error { return nil }

// HeaderFileNameFilter returns p's header patterns, defaulting to its source
// patterns.
func HeaderFileNameFilter(p Parser) []string {
	if hf, ok := p.(HeaderFilterer); ok {
		if patterns := hf.HeaderFileNameFilter(); len(patterns) > 0 {
			return patterns
		}
	}
	return p.SourceFileNameFilter()
}

// ParseHeaderFile parses a header with p, delegating to ParseSourceFile when p
// has no header-specific handling.
func ParseHeaderFile(ctx context.Context, p Parser, loc diag.Location, path string, tree *doctree.Tree) error {
	if hp, ok := p.(HeaderParser); ok {
		return hp.ParseHeaderFile(ctx, loc, path, tree)
	}
	return p.ParseSourceFile(ctx, loc, path, tree)
}

// DoneParsingHeaderFiles signals the end of header parsing, delegating to
// DoneParsingSourceFiles when p has no header-specific handling.
func DoneParsingHeaderFiles(ctx context.Context, p Parser, tree *doctree.Tree) error {
	if hp, ok := p.(HeaderParser); ok {
		return hp.DoneParsingHeaderFiles(ctx, tree)
	}
	return p.DoneParsingSourceFiles(ctx, tree)
}
