package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("showinternal: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.ShowInternal)
	assert.Equal(t, "./html", cfg.OutputDir)
	assert.Equal(t, string(LogLevelInfo), cfg.Logging.Level)
	assert.Equal(t, string(LogFormatText), cfg.Logging.Format)
	assert.NotNil(t, cfg.Aliases)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, cfg.ShowInternal)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("showinternals: true\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParseValidation(t *testing.T) {
	cases := map[string]string{
		"pattern basedir": "basedir: 'src/*'\n",
		"empty alias":     "aliases:\n  obsoleted: ''\n",
		"excluded input":  "sourcedirs: [src]\nexcludedirs: [src]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
		})
	}
}

func TestLoadResolvesPathsAndExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCPARSE_TEST_BASE=src\n"), 0o644))
	t.Setenv("DOCPARSE_TEST_OUT", "out")

	doc := `basedir: ${DOCPARSE_TEST_BASE}
outputdir: ${DOCPARSE_TEST_OUT}
sourcedirs: [src, /abs/src]
index:
  path: titles.db
`
	path := filepath.Join(dir, "docparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("DOCPARSE_TEST_BASE") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.BaseDir)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.Equal(t, []string{filepath.Join(dir, "src"), "/abs/src"}, cfg.SourceDirs)
	assert.Equal(t, filepath.Join(dir, "titles.db"), cfg.Index.Path)
}

func TestLoadEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCPARSE_TEST_KEEP=fromfile\n"), 0o644))
	t.Setenv("DOCPARSE_TEST_KEEP", "fromenv")

	path := filepath.Join(dir, "docparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("basedir: ${DOCPARSE_TEST_KEEP}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.BaseDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInitRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docparse.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err, "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "src", cfg.BaseDir)
	assert.Equal(t, "obsolete", cfg.Aliases["obsoleted"])
}

func TestLoggingConfig(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("chatty"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))

	l := LoggingConfig{Level: "error"}
	assert.Equal(t, slog.LevelError, l.SlogLevel(false))
	assert.Equal(t, slog.LevelDebug, l.SlogLevel(true))

	var buf bytes.Buffer
	LoggingConfig{Format: "json"}.NewLogger(&buf, false).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
