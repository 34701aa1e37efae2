package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docparse/internal/foundation/errors"
)

// Config represents a documentation run configuration. Key names follow the
// flat qdocconf vocabulary (showinternal, basedir, outputdir, ...).
type Config struct {
	// ShowInternal keeps \internal nodes public instead of hiding them.
	ShowInternal bool `yaml:"showinternal"`

	// BaseDir is the bundle base directory segment searched for in file paths
	// to derive per-file output subdirectories. Empty disables the feature.
	BaseDir string `yaml:"basedir,omitempty"`

	// OutputDir is the output root.
	OutputDir string `yaml:"outputdir"`

	HeaderDirs  []string `yaml:"headerdirs,omitempty"`
	SourceDirs  []string `yaml:"sourcedirs,omitempty"`
	ExcludeDirs []string `yaml:"excludedirs,omitempty"`

	// Aliases maps a spelled metacommand name to the canonical one.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	Index   IndexConfig   `yaml:"index,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// IndexConfig configures the persistent page-name to title index.
type IndexConfig struct {
	// Path is the sqlite database file. Empty keeps the index in memory.
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig configures run metrics.
type MetricsConfig struct {
	// Textfile receives the Prometheus text exposition after each run.
	Textfile string `yaml:"textfile,omitempty"`
}

// Load loads configuration from the specified file. Environment variables
// from .env/.env.local are loaded first and ${VAR} references expanded.
// Relative directories are resolved against the config file's directory.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(strings.NewReader(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

// Parse decodes YAML configuration, applies defaults and validates it.
// Unknown keys are rejected so typos surface instead of silently doing nothing.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}

func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) || p == ":memory:" {
			return p
		}
		return filepath.Join(base, p)
	}
	for _, dirs := range [][]string{c.HeaderDirs, c.SourceDirs, c.ExcludeDirs} {
		for i := range dirs {
			dirs[i] = abs(dirs[i])
		}
	}
	c.OutputDir = abs(c.OutputDir)
	c.Index.Path = abs(c.Index.Path)
	c.Metrics.Textfile = abs(c.Metrics.Textfile)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		BaseDir:     "src",
		OutputDir:   "./html",
		HeaderDirs:  []string{"src"},
		SourceDirs:  []string{"src", "doc/src"},
		ExcludeDirs: []string{"src/3rdparty"},
		Aliases:     map[string]string{"obsoleted": "obsolete"},
		Index:       IndexConfig{Path: "./titles.db"},
		Logging:     LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
