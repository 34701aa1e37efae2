// Package outputdir derives the per-file output subdirectory from the bundle
// base dir and creates it under the output root.
package outputdir

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/docparse/internal/diag"
	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
	"git.home.luguber.info/inful/docparse/internal/logfields"
)

// Resolver computes output subdirectories. It is safe for concurrent use,
// although CurrentSubdir is only meaningful for sequential processing.
type Resolver struct {
	baseDir    string
	outputRoot string
	reporter   diag.Reporter
	logger     *slog.Logger

	mu      sync.Mutex
	current string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithReporter sets where path warnings go.
func WithReporter(r diag.Reporter) Option {
	return func(res *Resolver) { res.reporter = r }
}

// WithLogger sets the logger used for directory creation messages.
func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) { res.logger = l }
}

// New returns a resolver. An empty baseDir disables resolution entirely.
func New(baseDir, outputRoot string, opts ...Option) *Resolver {
	r := &Resolver{
		baseDir:    baseDir,
		outputRoot: outputRoot,
		reporter:   diag.Discard{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseDir returns the configured bundle base dir.
func (r *Resolver) BaseDir() string { return r.baseDir }

// CurrentSubdir returns the subdirectory derived for the last resolved file,
// or "" when resolution was skipped or aborted.
func (r *Resolver) CurrentSubdir() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Resolve derives the subdirectory for filePath and makes sure
// <outputRoot>/<subdir> exists. Malformed paths are reported as warnings and
// yield "" with a nil error. Failing to create the directory is fatal.
func (r *Resolver) Resolve(loc diag.Location, filePath string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = ""
	if r.baseDir == "" {
		return "", nil
	}

	subdir, warning := r.derive(filepath.ToSlash(filePath))
	if warning != "" {
		r.reporter.Warning(loc, diag.KindBaseDir, warning)
		return "", nil
	}
	r.current = subdir

	target := filepath.Join(r.outputRoot, subdir)
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return subdir, nil
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return subdir, errors.WrapError(err, errors.CategoryFileSystem,
			fmt.Sprintf("cannot create output sub-directory '%s'", subdir)).
			WithContext("path", target).
			WithContext("location", loc.String()).
			Fatal().
			Build()
	}
	r.logger.Debug("Created output subdirectory", logfields.Subdir(subdir), logfields.Path(target))
	return subdir, nil
}

// derive returns the path segment that follows the first occurrence of the
// base dir, or a warning message describing why there is none.
func (r *Resolver) derive(filePath string) (string, string) {
	baseIdx := strings.Index(filePath, r.baseDir)
	if baseIdx < 0 {
		return "", fmt.Sprintf("File path: '%s' does not contain bundle base dir: '%s'", filePath, r.baseDir)
	}

	sep := strings.IndexByte(filePath[baseIdx:], '/')
	if sep < 0 {
		return "", fmt.Sprintf("File path: '%s' has no sub dir after bundle base dir: '%s'", filePath, r.baseDir)
	}
	rest := filePath[baseIdx+sep+1:]

	end := strings.IndexByte(rest, '/')
	if end < 0 {
		return "", fmt.Sprintf("File path: '%s' has no file name after sub dir: '%s/'", filePath, rest)
	}
	if end == 0 {
		return "", fmt.Sprintf("File path: '%s' has no sub dir after bundle base dir: '%s'", filePath, r.baseDir)
	}
	return rest[:end], ""
}
