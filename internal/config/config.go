// Package config loads the texkit project configuration (texkit.yaml) and
// applies defaults. All values can be overridden per invocation by CLI flags;
// the config file itself is optional for projects happy with the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	texerrors "git.home.luguber.info/inful/texkit/internal/errors"
)

// DefaultFile is the config file looked up when none is given explicitly.
const DefaultFile = "texkit.yaml"

// Config represents the project configuration
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Engine  EngineConfig  `yaml:"engine"`
	Watch   WatchConfig   `yaml:"watch"`
	Lint    LintConfig    `yaml:"lint"`
	History HistoryConfig `yaml:"history"`
}

// MainPath returns the main source file path relative to the project root.
func (c *Config) MainPath() string {
	return filepath.Join(c.Source.Dir, c.Source.Main)
}

// SourceConfig describes where the document sources live.
type SourceConfig struct {
	Dir  string `yaml:"dir"`  // directory containing .tex sources
	Main string `yaml:"main"` // main .tex file, relative to dir
}

// OutputConfig describes where build artifacts go.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// EngineConfig selects sandboxed (docker) or local toolchain execution.
type EngineConfig struct {
	Mode         string   `yaml:"mode"`  // "docker" or "local"
	Image        string   `yaml:"image"` // container image for sandboxed runs
	BuildTimeout Duration `yaml:"build_timeout"`
	LocalTimeout Duration `yaml:"local_timeout"`
	LintTimeout  Duration `yaml:"lint_timeout"`
}

// Sandboxed reports whether toolchain commands run inside the container runtime.
func (e EngineConfig) Sandboxed() bool { return e.Mode != EngineLocal }

// Timeout returns the build timeout for the active engine mode.
func (e EngineConfig) Timeout() time.Duration {
	if e.Sandboxed() {
		return e.BuildTimeout.Std()
	}
	return e.LocalTimeout.Std()
}

// Engine mode values.
const (
	EngineDocker = "docker"
	EngineLocal  = "local"
)

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce     Duration `yaml:"debounce"`
	Extensions   []string `yaml:"extensions"`
	ExtraDirs    []string `yaml:"extra_dirs"` // sibling dirs watched when present
	InitialBuild *bool    `yaml:"initial_build"`
}

// InitialBuildEnabled returns the configured initial-build flag, defaulting to true.
func (w WatchConfig) InitialBuildEnabled() bool {
	if w.InitialBuild == nil {
		return true
	}
	return *w.InitialBuild
}

// LintConfig tunes the lint command. Verbosity is a pointer so that an
// explicit `verbosity: 0` is distinguishable from the field being absent.
type LintConfig struct {
	Verbosity *int `yaml:"verbosity"` // chktex -v level (0-3)
	Strict    bool `yaml:"strict"`
	Lacheck   bool `yaml:"lacheck"`
}

// VerbosityLevel returns the configured chktex -v level, defaulting to 1.
func (l LintConfig) VerbosityLevel() int {
	if l.Verbosity == nil {
		return 1
	}
	return *l.Verbosity
}

// HistoryConfig controls the build history store.
type HistoryConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// Load loads configuration from the specified file. A missing file at the
// default location yields the default configuration; an explicitly requested
// file that does not exist is an error.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists (never overrides existing env)
	loadEnvFiles()

	explicit := configPath != "" && configPath != DefaultFile
	if configPath == "" {
		configPath = DefaultFile
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if explicit {
			return nil, texerrors.ConfigNotFound(configPath)
		}
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, texerrors.ConfigInvalid(configPath, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Dir == "" {
		c.Source.Dir = "src"
	}
	if c.Source.Main == "" {
		c.Source.Main = "main.tex"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "build"
	}
	if c.Engine.Mode == "" {
		c.Engine.Mode = EngineDocker
	}
	if c.Engine.Image == "" {
		c.Engine.Image = "texlive/texlive:latest-full"
	}
	if c.Engine.BuildTimeout == 0 {
		c.Engine.BuildTimeout = Duration(10 * time.Minute)
	}
	if c.Engine.LocalTimeout == 0 {
		c.Engine.LocalTimeout = Duration(5 * time.Minute)
	}
	if c.Engine.LintTimeout == 0 {
		c.Engine.LintTimeout = Duration(time.Minute)
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(time.Second)
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".tex", ".bib", ".sty", ".cls"}
	}
	if c.Watch.ExtraDirs == nil {
		c.Watch.ExtraDirs = []string{"styles", "assets"}
	}
	if c.History.Path == "" {
		c.History.Path = ".texkit/history.db"
	}
}

func (c *Config) validate() error {
	switch c.Engine.Mode {
	case EngineDocker, EngineLocal:
	default:
		return texerrors.New(texerrors.CategoryValidation, texerrors.SeverityFatal,
			"engine.mode must be docker or local").WithContext("mode", c.Engine.Mode)
	}
	if v := c.Lint.VerbosityLevel(); v < 0 || v > 3 {
		return texerrors.New(texerrors.CategoryValidation, texerrors.SeverityFatal,
			"lint.verbosity must be between 0 and 3").WithContext("verbosity", v)
	}
	return nil
}
