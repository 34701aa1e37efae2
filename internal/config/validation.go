package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

// ValidateConfig checks a configuration after defaults have been applied.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.ValidationError("outputdir must not be empty").Build()
	}
	if strings.ContainsAny(cfg.BaseDir, "*?") {
		return errors.ValidationError("basedir is a literal path segment, not a pattern").
			WithContext("basedir", cfg.BaseDir).
			Build()
	}
	for spelled, canonical := range cfg.Aliases {
		if strings.TrimSpace(spelled) == "" || strings.TrimSpace(canonical) == "" {
			return errors.ValidationError("aliases must map a non-empty name to a non-empty command").Build()
		}
	}

	excluded := make(map[string]struct{}, len(cfg.ExcludeDirs))
	for _, d := range cfg.ExcludeDirs {
		excluded[filepath.Clean(d)] = struct{}{}
	}
	for _, dirs := range [][]string{cfg.HeaderDirs, cfg.SourceDirs} {
		for _, d := range dirs {
			if _, ok := excluded[filepath.Clean(d)]; ok {
				return errors.ValidationError("directory is both an input and excluded").
					WithContext("dir", d).
					Build()
			}
		}
	}
	return nil
}
