package langs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docparse/internal/config"
	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/doctree"
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
	"git.home.luguber.info/inful/docparse/internal/parser"
)

func TestBuiltinsSelection(t *testing.T) {
	reg := parser.NewRegistry(nil)
	handles, err := RegisterBuiltins(reg)
	require.NoError(t, err)
	require.Len(t, handles, 3)
	assert.Equal(t, []string{"JavaScript", "QML", "Cpp"}, reg.Languages())

	tests := []struct {
		path   string
		header bool
		want   string
	}{
		{"/src/gui/qwidget.h", true, "Cpp"},
		{"/src/gui/QWidget.HPP", true, "Cpp"},
		{"/src/gui/qwidget.cpp", false, "Cpp"},
		{"/doc/src/widgets.qdoc", false, "Cpp"},
		{"/src/quick/Item.qml", false, "QML"},
		{"/src/quick/Item.qml", true, "QML"},
		{"/src/quick/util.js", false, "JavaScript"},
	}
	for _, tt := range tests {
		var (
			p  parser.Parser
			ok bool
		)
		if tt.header {
			p, ok = reg.ForHeaderFile(tt.path)
		} else {
			p, ok = reg.ForSourceFile(tt.path)
		}
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.want, p.Language(), tt.path)
	}

	_, ok := reg.ForHeaderFile("/src/gui/qwidget.cpp")
	assert.False(t, ok)
	_, ok = reg.ForSourceFile("/src/gui/qwidget.h")
	assert.False(t, ok)

	for _, h := range handles {
		h.Release()
	}
	assert.Zero(t, reg.Count())
}

func TestParseRecordsFilesAndSubdirs(t *testing.T) {
	out := t.TempDir()
	cfg := config.Default()
	cfg.BaseDir = "src"
	cfg.OutputDir = out

	collector := &diag.Collector{}
	cpp := NewCpp(WithReporter(collector))
	require.NoError(t, cpp.InitializeParser(cfg))

	tree := doctree.NewTree()
	ctx := context.Background()
	require.NoError(t, parser.ParseHeaderFile(ctx, cpp, diag.At("qwidget.h"), "/repo/src/gui/qwidget.h", tree))
	require.NoError(t, cpp.ParseSourceFile(ctx, diag.At("qwidget.cpp"), "/repo/src/gui/qwidget.cpp", tree))
	require.NoError(t, cpp.ParseSourceFile(ctx, diag.At("main.cpp"), "/repo/tools/main.cpp", tree))

	assert.DirExists(t, filepath.Join(out, "gui"))
	assert.Equal(t, 1, collector.Count(diag.KindBaseDir))

	files := tree.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "qwidget.h", files[0].Name())
	assert.Equal(t, doctree.SubtypeHeaderFile, files[0].Subtype())
	assert.Equal(t, doctree.SubtypeFile, files[1].Subtype())

	require.NoError(t, cpp.TerminateParser())
	assert.Nil(t, cpp.Resolver())
}

func TestParseFailsWhenOutputDirCannotBeCreated(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, nil, 0o600))
	cfg := config.Default()
	cfg.BaseDir = "src"
	cfg.OutputDir = root

	qml := NewQML()
	require.NoError(t, qml.InitializeParser(cfg))

	err := qml.ParseSourceFile(context.Background(), diag.At("Item.qml"), "/repo/src/quick/Item.qml", doctree.NewTree())
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestParseHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	js := NewJavaScript()
	tree := doctree.NewTree()
	err := js.ParseSourceFile(ctx, diag.Location{}, "/repo/src/a/util.js", tree)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tree.Files())
}

func TestBuiltinsShareOneResolver(t *testing.T) {
	out := t.TempDir()
	cfg := config.Default()
	cfg.BaseDir = "src"
	cfg.OutputDir = out

	reg := parser.NewRegistry(nil)
	handles, err := RegisterBuiltins(reg)
	require.NoError(t, err)
	require.NoError(t, reg.InitializeAll(cfg))

	cpp, ok := handles[0].Parser().(*Cpp)
	require.True(t, ok)
	qml, ok := handles[1].Parser().(*QML)
	require.True(t, ok)
	js, ok := handles[2].Parser().(*JavaScript)
	require.True(t, ok)

	require.NotNil(t, cpp.Resolver())
	assert.Same(t, cpp.Resolver(), qml.Resolver())
	assert.Same(t, cpp.Resolver(), js.Resolver())

	tree := doctree.NewTree()
	require.NoError(t, cpp.ParseSourceFile(context.Background(), diag.At("qwidget.cpp"), "/repo/src/gui/qwidget.cpp", tree))
	assert.Equal(t, "gui", qml.Resolver().CurrentSubdir())

	reg.TerminateAll()
	assert.Nil(t, cpp.Resolver())
	assert.Nil(t, js.Resolver())

	require.NoError(t, reg.InitializeAll(cfg))
	assert.NotNil(t, qml.Resolver(), "a second run gets a fresh resolver")
	assert.Empty(t, qml.Resolver().CurrentSubdir())
	reg.TerminateAll()
}
