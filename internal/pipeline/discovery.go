package pipeline

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
	"git.home.luguber.info/inful/docparse/internal/logfields"
	"git.home.luguber.info/inful/docparse/internal/util/sets"
)

// Discovery lists the files below a set of input directories.
type Discovery struct {
	excluded sets.Set[string]
	logger   *slog.Logger
}

// NewDiscovery returns a discovery that skips the given directories and
// everything below them.
func NewDiscovery(excludeDirs []string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	excluded := sets.New[string]()
	for _, d := range excludeDirs {
		excluded.Add(filepath.Clean(d))
	}
	return &Discovery{excluded: excluded, logger: logger}
}

// Excluded reports whether dir is one of the excluded directories.
func (d *Discovery) Excluded(dir string) bool {
	return d.excluded.Has(filepath.Clean(dir))
}

// Files walks dirs in order and returns every regular file found, each once,
// in walk order. Hidden directories are skipped. Missing input directories
// are logged and skipped.
func (d *Discovery) Files(dirs []string) ([]string, error) {
	found := sets.NewOrdered[string]()

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			d.logger.Warn("Input directory not found", logfields.Path(dir))
			continue
		}

		err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if d.Excluded(path) || (path != dir && strings.HasPrefix(entry.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if entry.Type().IsRegular() {
				found.Add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem,
				fmt.Sprintf("failed to walk input directory %s", dir)).
				WithContext("dir", dir).
				Build()
		}
	}

	d.logger.Debug("Discovered input files", logfields.Count(found.Len()), slog.Any("dirs", dirs))
	return found.Values(), nil
}
