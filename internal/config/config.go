// Package config loads the optional .recursive-runner.yml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srgsanky/recursive-runner/internal/runner"
	"github.com/srgsanky/recursive-runner/internal/types"
)

// FileName is the config file looked up in the working directory.
const FileName = ".recursive-runner.yml"

// Config holds the parsed configuration file. All fields are optional;
// zero values represent defaults.
type Config struct {
	IgnoreErrors bool     `yaml:"ignore_errors"`
	Quiet        bool     `yaml:"quiet"`
	Strict       bool     `yaml:"strict"`
	RawShell     string   `yaml:"shell"`
	RawTerm      string   `yaml:"term"`
	RawTimeout   string   `yaml:"timeout"` // e.g. "30s", "5m"
	RawJobs      int      `yaml:"jobs"`
	Width        int      `yaml:"width"`
	Color        string   `yaml:"color"` // auto, always, never
	Ignore       []string `yaml:"ignore"`
	Env          []string `yaml:"env"` // KEY=VALUE
}

// Shell returns the configured shell or the default.
func (c *Config) Shell() string {
	if s := strings.TrimSpace(c.RawShell); s != "" {
		return s
	}
	return runner.DefaultShell
}

// Term returns the configured TERM value or the default.
func (c *Config) Term() string {
	if s := strings.TrimSpace(c.RawTerm); s != "" {
		return s
	}
	return runner.DefaultTerm
}

// Timeout returns the configured per-directory timeout. Zero means none.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RawTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Jobs returns the number of directories processed at once, at least 1.
func (c *Config) Jobs() int {
	if c.RawJobs > 1 {
		return c.RawJobs
	}
	return 1
}

// PathFilter returns the ignore configuration for the enumerator.
func (c *Config) PathFilter() *types.PathFilterConfig {
	return &types.PathFilterConfig{IgnoredPatterns: c.Ignore}
}

// Validate reports malformed values that would otherwise be silently
// replaced by defaults.
func (c *Config) Validate() error {
	var errs []error
	if c.RawTimeout != "" {
		if d, err := time.ParseDuration(c.RawTimeout); err != nil {
			errs = append(errs, fmt.Errorf("timeout: %w", err))
		} else if d < 0 {
			errs = append(errs, fmt.Errorf("timeout: must not be negative"))
		}
	}
	if c.RawJobs < 0 {
		errs = append(errs, fmt.Errorf("jobs: must not be negative"))
	}
	if c.Width < 0 {
		errs = append(errs, fmt.Errorf("width: must not be negative"))
	}
	for _, kv := range c.Env {
		if k, _, ok := strings.Cut(kv, "="); !ok || k == "" {
			errs = append(errs, fmt.Errorf("env: %q is not KEY=VALUE", kv))
		}
	}
	return errors.Join(errs...)
}

// Load reads the config file. With an empty path, FileName in dir is
// used and a missing file yields a default Config. An explicit path
// must exist.
func Load(dir, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}
