package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the packing rules and the external tools used to apply them.
type Config struct {
	// IgnorePatterns are substrings of library references that are assumed
	// to exist on every target system and are never packed.
	IgnorePatterns []string `yaml:"ignore_patterns"`
	// LocalPrefixes are directory prefixes whose libraries get packed.
	LocalPrefixes []string `yaml:"local_prefixes"`
	// InspectTool lists the libraries a binary links against.
	InspectTool string `yaml:"inspect_tool"`
	// RewriteTool changes install names and references inside a binary.
	RewriteTool string `yaml:"rewrite_tool"`
	// Timeout bounds a single tool invocation.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level printed to the console.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the filename suggested by `libpack config`.
	DefaultConfigFilename = "libpack.yaml"

	// DefaultInspectTool is the macOS object file displaying tool.
	DefaultInspectTool = "otool"

	// DefaultRewriteTool is the macOS install name editing tool.
	DefaultRewriteTool = "install_name_tool"

	// DefaultLocalPrefix is where locally built and Homebrew libraries live.
	DefaultLocalPrefix = "/usr/local/"

	// DefaultTimeout is the default duration of a single tool invocation.
	DefaultTimeout = 30 * time.Second

	// DefaultLogLevel is the default console level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errRelativePrefix is returned when a local prefix is not absolute.
	errRelativePrefix = errors.New("local prefix must be an absolute path")
	// errEmptyPattern is returned when an ignore pattern is blank.
	errEmptyPattern = errors.New("ignore pattern must not be empty")
)

// DefaultIgnorePatterns returns the frameworks shipped with every target system.
func DefaultIgnorePatterns() []string {
	return []string{
		"QtSvg",
		"QtMacExtras",
		"QtWidgets",
		"QtGui",
		"QtCore",
	}
}

// Default returns a configuration populated with defaults.
func Default() *Config {
	return &Config{
		IgnorePatterns: DefaultIgnorePatterns(),
		LocalPrefixes:  []string{DefaultLocalPrefix},
		InspectTool:    DefaultInspectTool,
		RewriteTool:    DefaultRewriteTool,
		Timeout:        DefaultTimeout,
		LogLevel:       DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates it.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills unset fields with defaults.
// A nil ignore list means defaults, an explicit empty list disables ignoring.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.IgnorePatterns == nil {
		cfg.IgnorePatterns = DefaultIgnorePatterns()
	}

	for _, pattern := range cfg.IgnorePatterns {
		if strings.TrimSpace(pattern) == "" {
			return errEmptyPattern
		}
	}

	if len(cfg.LocalPrefixes) == 0 {
		cfg.LocalPrefixes = []string{DefaultLocalPrefix}
	}

	for i, prefix := range cfg.LocalPrefixes {
		if !filepath.IsAbs(prefix) {
			return fmt.Errorf("%q: %w", prefix, errRelativePrefix)
		}

		// Keep the separator so /usr/localized never matches /usr/local.
		cfg.LocalPrefixes[i] = strings.TrimRight(filepath.Clean(prefix), "/") + "/"
	}

	if cfg.InspectTool == "" {
		cfg.InspectTool = DefaultInspectTool
	}

	if cfg.RewriteTool == "" {
		cfg.RewriteTool = DefaultRewriteTool
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}

// IsIgnored reports whether a library reference matches an ignore pattern.
func (c *Config) IsIgnored(reference string) bool {
	for _, pattern := range c.IgnorePatterns {
		if strings.Contains(reference, pattern) {
			return true
		}
	}

	return false
}

// IsLocal reports whether a resolved path lies under one of the local prefixes.
func (c *Config) IsLocal(path string) bool {
	for _, prefix := range c.LocalPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
