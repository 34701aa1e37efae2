package outputdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

func TestResolveCreatesSubdirectory(t *testing.T) {
	out := t.TempDir()
	collector := &diag.Collector{}
	r := New("src", out, WithReporter(collector))

	subdir, err := r.Resolve(diag.At("file.cpp"), "/repo/src/sub/file.cpp")
	require.NoError(t, err)
	assert.Equal(t, "sub", subdir)
	assert.Equal(t, "sub", r.CurrentSubdir())
	assert.DirExists(t, filepath.Join(out, "sub"))
	assert.Empty(t, collector.Diagnostics())

	// Existing directories are left alone.
	_, err = r.Resolve(diag.At("other.cpp"), "/repo/src/sub/other.cpp")
	require.NoError(t, err)
}

func TestResolveNoBaseDirIsNoop(t *testing.T) {
	out := t.TempDir()
	collector := &diag.Collector{}
	r := New("", out, WithReporter(collector))

	subdir, err := r.Resolve(diag.Location{}, "/repo/src/sub/file.cpp")
	require.NoError(t, err)
	assert.Empty(t, subdir)
	assert.Empty(t, collector.Diagnostics())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolveWarnings(t *testing.T) {
	tests := []struct {
		name    string
		baseDir string
		path    string
		message string
	}{
		{
			name:    "base dir missing",
			baseDir: "src",
			path:    "/repo/lib/sub/file.cpp",
			message: "File path: '/repo/lib/sub/file.cpp' does not contain bundle base dir: 'src'",
		},
		{
			name:    "no separator after base dir",
			baseDir: "src",
			path:    "/repo/src",
			message: "File path: '/repo/src' has no sub dir after bundle base dir: 'src'",
		},
		{
			name:    "no file name after sub dir",
			baseDir: "src",
			path:    "/repo/src/file.cpp",
			message: "File path: '/repo/src/file.cpp' has no file name after sub dir: 'file.cpp/'",
		},
		{
			name:    "empty sub dir",
			baseDir: "src",
			path:    "/repo/src//file.cpp",
			message: "File path: '/repo/src//file.cpp' has no sub dir after bundle base dir: 'src'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			collector := &diag.Collector{}
			r := New(tt.baseDir, out, WithReporter(collector))

			subdir, err := r.Resolve(diag.At("f"), tt.path)
			require.NoError(t, err)
			assert.Empty(t, subdir)
			assert.Empty(t, r.CurrentSubdir())

			got := collector.Diagnostics()
			require.Len(t, got, 1)
			assert.Equal(t, diag.KindBaseDir, got[0].Kind)
			assert.Equal(t, tt.message, got[0].Message)

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestResolveAbortClearsCurrent(t *testing.T) {
	r := New("src", t.TempDir())

	_, err := r.Resolve(diag.Location{}, "/repo/src/a/file.cpp")
	require.NoError(t, err)
	require.Equal(t, "a", r.CurrentSubdir())

	_, err = r.Resolve(diag.Location{}, "/elsewhere/file.cpp")
	require.NoError(t, err)
	assert.Empty(t, r.CurrentSubdir())
}

func TestResolveMkdirFailureIsFatal(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o600))

	r := New("src", root)
	_, err := r.Resolve(diag.At("file.cpp"), "/repo/src/sub/file.cpp")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	assert.Contains(t, err.Error(), "cannot create output sub-directory 'sub'")
}
