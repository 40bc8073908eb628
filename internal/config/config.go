package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/launchwrap/launchwrap/internal/launcher"
)

type Config struct {
	// Strategy selects the launcher artifact: "script" or "compiled".
	Strategy string `yaml:"strategy"`

	// Interpreter is the POSIX shell the launcher hands control to.
	Interpreter string `yaml:"interpreter"`

	// Profiles are sourced in order before PATH is rebuilt. Entries are
	// home-relative unless absolute.
	Profiles []string `yaml:"profiles"`

	// PackageDirs are prepended to PATH when present, highest priority
	// first.
	PackageDirs []string `yaml:"package_dirs"`

	// SystemPath is appended after the package directories.
	SystemPath string `yaml:"system_path"`

	// Exclude lists glob patterns of application paths that must never
	// be rewritten.
	Exclude []string `yaml:"exclude"`

	Signing SigningConfig `yaml:"signing"`
	Logging LoggingConfig `yaml:"logging"`
}

// SigningConfig controls re-signing of installed launchers.
type SigningConfig struct {
	// Enabled defaults to true when unset.
	Enabled *bool `yaml:"enabled"`

	// Identity is handed to codesign --sign; "-" means ad-hoc.
	Identity string `yaml:"identity"`

	// Required escalates a signing failure from a warning to a rewrite
	// failure, rolling the application back to its original state.
	Required bool `yaml:"required"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SigningEnabled reports whether installed launchers should be re-signed.
func (c *Config) SigningEnabled() bool {
	return c.Signing.Enabled == nil || *c.Signing.Enabled
}

// ExcludeGlobs compiles the exclude patterns. Patterns match absolute
// application paths with / as the separator.
func (c *Config) ExcludeGlobs() ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(c.Exclude))
	for _, pattern := range c.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// LauncherConfig assembles the generation parameters for one preserved
// original executable.
func (c *Config) LauncherConfig(realName string) launcher.Config {
	return launcher.Config{
		RealName:    realName,
		Interpreter: c.Interpreter,
		Profiles:    c.Profiles,
		PackageDirs: c.PackageDirs,
		SystemPath:  c.SystemPath,
	}
}

// Default returns the built-in configuration used when no config file is
// given. Environment overrides still apply.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromBytes loads configuration from bytes without applying environment
// overrides. This is intended for testing where env vars should not interfere.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Strategy == "" {
		cfg.Strategy = "script"
	}
	if cfg.Interpreter == "" {
		cfg.Interpreter = launcher.DefaultInterpreter
	}
	if cfg.Profiles == nil {
		cfg.Profiles = launcher.DefaultProfiles()
	}
	if cfg.PackageDirs == nil {
		cfg.PackageDirs = launcher.DefaultPackageDirs()
	}
	if cfg.SystemPath == "" {
		cfg.SystemPath = launcher.DefaultSystemPath
	}
	if cfg.Signing.Enabled == nil {
		enabled := true
		cfg.Signing.Enabled = &enabled
	}
	if cfg.Signing.Identity == "" {
		cfg.Signing.Identity = "-"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LAUNCHWRAP_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("LAUNCHWRAP_INTERPRETER"); v != "" {
		cfg.Interpreter = v
	}
	if v := os.Getenv("LAUNCHWRAP_SIGNING_IDENTITY"); v != "" {
		cfg.Signing.Identity = v
	}
	if v := os.Getenv("LAUNCHWRAP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Strategy {
	case "script", "compiled":
	default:
		return fmt.Errorf("invalid strategy %q", cfg.Strategy)
	}
	if !filepath.IsAbs(cfg.Interpreter) {
		return fmt.Errorf("interpreter %q must be an absolute path", cfg.Interpreter)
	}
	for _, p := range cfg.Profiles {
		if p == "" {
			return fmt.Errorf("profiles must not contain empty entries")
		}
	}
	for _, d := range cfg.PackageDirs {
		if !filepath.IsAbs(d) {
			return fmt.Errorf("invalid package_dirs entry %q: must be absolute", d)
		}
	}
	if _, err := cfg.ExcludeGlobs(); err != nil {
		return err
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging.format %q", cfg.Logging.Format)
	}
	return nil
}
