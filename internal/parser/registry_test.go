package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
	foundation "git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

// fakeParser records the lifecycle calls it receives.
type fakeParser struct {
	BaseParser
	lang      string
	sources   []string
	headers   []string
	initErr   error
	termErr   error
	inits     int
	terms     int
	parsed    []string
	doneCalls int
}

func (f *fakeParser) Language() string               { return f.lang }
func (f *fakeParser) SourceFileNameFilter() []string { return f.sources }

func (f *fakeParser) ParseSourceFile(_ context.Context, _ diag.Location, path string, _ *doctree.Tree) error {
	f.parsed = append(f.parsed, path)
	return nil
}

func (f *fakeParser) DoneParsingSourceFiles(context.Context, *doctree.Tree) error {
	f.doneCalls++
	return nil
}

func (f *fakeParser) InitializeParser(*config.Config) error {
	f.inits++
	return f.initErr
}

func (f *fakeParser) TerminateParser() error {
	f.terms++
	return f.termErr
}

// headerFake adds distinct header patterns.
type headerFake struct {
	fakeParser
}

func (h *headerFake) HeaderFileNameFilter() []string { return h.headers }

func TestRegisterRejectsInvalidParsers(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Register(nil)
	require.ErrorIs(t, err, ErrNilParser)

	_, err = r.Register(&fakeParser{})
	require.ErrorIs(t, err, ErrNoLanguage)
	assert.Equal(t, foundation.CategoryValidation, foundation.GetCategory(err))
	assert.Zero(t, r.Count())
}

func TestRegistryOrderMostRecentFirst(t *testing.T) {
	r := NewRegistry(nil)
	first := &fakeParser{lang: "First", sources: []string{"*.cpp"}}
	second := &fakeParser{lang: "Second", sources: []string{"*.CPP", "*.mm"}}

	_, err := r.Register(first)
	require.NoError(t, err)
	_, err = r.Register(second)
	require.NoError(t, err)

	assert.Equal(t, []string{"Second", "First"}, r.Languages())

	p, ok := r.ForSourceFile("/src/widgets/Foo.cpp")
	require.True(t, ok)
	assert.Same(t, second, p)
}

func TestForSourceFileMatchesBareName(t *testing.T) {
	r := NewRegistry(nil)
	qml := &fakeParser{lang: "QML", sources: []string{"*.qml"}}
	_, err := r.Register(qml)
	require.NoError(t, err)

	p, ok := r.ForSourceFile("/src/qml.d/Button.QML")
	require.True(t, ok)
	assert.Same(t, qml, p)

	_, ok = r.ForSourceFile("/src/button.qml.d/readme.txt")
	assert.False(t, ok)
}

func TestForHeaderFileDefaultsToSourcePatterns(t *testing.T) {
	r := NewRegistry(nil)
	js := &fakeParser{lang: "JavaScript", sources: []string{"*.js"}}
	cpp := &headerFake{fakeParser{lang: "Cpp", sources: []string{"*.cpp"}, headers: []string{"*.h"}}}
	_, err := r.Register(js)
	require.NoError(t, err)
	_, err = r.Register(cpp)
	require.NoError(t, err)

	p, ok := r.ForHeaderFile("lib/util.js")
	require.True(t, ok)
	assert.Same(t, js, p)

	p, ok = r.ForHeaderFile("lib/widget.H")
	require.True(t, ok)
	assert.Same(t, cpp, p)

	_, ok = r.ForHeaderFile("lib/widget.cpp")
	assert.False(t, ok, "explicit header patterns replace the source patterns")
}

func TestEmptyHeaderFilterFallsBack(t *testing.T) {
	p := &headerFake{fakeParser{lang: "Cpp", sources: []string{"*.cpp"}}}
	assert.Equal(t, []string{"*.cpp"}, HeaderFileNameFilter(p))
}

func TestParseHeaderFileDelegatesToSource(t *testing.T) {
	p := &fakeParser{lang: "QML", sources: []string{"*.qml"}}
	tree := doctree.NewTree()

	require.NoError(t, ParseHeaderFile(context.Background(), p, diag.At("a.qml"), "a.qml", tree))
	require.NoError(t, DoneParsingHeaderFiles(context.Background(), p, tree))

	assert.Equal(t, []string{"a.qml"}, p.parsed)
	assert.Equal(t, 1, p.doneCalls)
}

func TestHandleRelease(t *testing.T) {
	r := NewRegistry(nil)
	a := &fakeParser{lang: "A", sources: []string{"*.a"}}
	b := &fakeParser{lang: "B", sources: []string{"*.b"}}

	ha, err := r.Register(a)
	require.NoError(t, err)
	_, err = r.Register(b)
	require.NoError(t, err)

	ha.Release()
	ha.Release()

	assert.Equal(t, []string{"B"}, r.Languages())
	_, ok := r.ForLanguage("A")
	assert.False(t, ok)
	_, ok = r.ForSourceFile("x.a")
	assert.False(t, ok)
}

func TestInitializeAllContinuesAfterFailure(t *testing.T) {
	r := NewRegistry(nil)
	boom := errors.New("boom")
	good := &fakeParser{lang: "Good", sources: []string{"*.g"}}
	bad := &fakeParser{lang: "Bad", sources: []string{"*.b"}, initErr: boom}
	_, err := r.Register(good)
	require.NoError(t, err)
	_, err = r.Register(bad)
	require.NoError(t, err)

	err = r.InitializeAll(config.Default())
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrInitializeFailed)

	var pe *ParserError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Bad", pe.Language)

	assert.Equal(t, 1, good.inits)
	assert.Equal(t, 1, bad.inits)
}

func TestTerminateAllIgnoresFailures(t *testing.T) {
	r := NewRegistry(nil)
	a := &fakeParser{lang: "A", termErr: errors.New("cleanup failed")}
	b := &fakeParser{lang: "B"}
	_, err := r.Register(a)
	require.NoError(t, err)
	_, err = r.Register(b)
	require.NoError(t, err)

	r.TerminateAll()

	assert.Equal(t, 1, a.terms)
	assert.Equal(t, 1, b.terms)
}

func TestForLanguage(t *testing.T) {
	r := NewRegistry(nil)
	p := &fakeParser{lang: "Cpp"}
	r.MustRegister(p)

	got, ok := r.ForLanguage("Cpp")
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = r.ForLanguage("cpp")
	assert.False(t, ok, "language names are matched exactly")
}

// valueParser is not comparable because of its slice field.
type valueParser struct {
	BaseParser
	patterns []string
}

func (v valueParser) Language() string               { return "Value" }
func (v valueParser) SourceFileNameFilter() []string { return v.patterns }

func (valueParser) ParseSourceFile(context.Context, diag.Location, string, *doctree.Tree) error {
	return nil
}

func (valueParser) DoneParsingSourceFiles(context.Context, *doctree.Tree) error { return nil }

func TestReleaseNonComparableParser(t *testing.T) {
	r := NewRegistry(nil)
	h, err := r.Register(valueParser{patterns: []string{"*.val"}})
	require.NoError(t, err)
	other := r.MustRegister(valueParser{patterns: []string{"*.val"}})

	got, ok := r.Lookup("src/a.val", false)
	require.True(t, ok)
	assert.Same(t, other, got)

	require.NotPanics(t, h.Release)
	assert.Equal(t, 1, r.Count())

	require.NotPanics(t, func() { r.Unregister(other) })
	assert.Zero(t, r.Count())
}

func TestUnregisterIgnoresForeignHandle(t *testing.T) {
	a := NewRegistry(nil)
	b := NewRegistry(nil)
	h := a.MustRegister(&fakeParser{lang: "A"})

	b.Unregister(h)
	b.Unregister(nil)
	assert.Equal(t, 1, a.Count())
}
