// Package config loads the esb.toml file that tells the esb command how to
// run a solution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "esb.toml"

// Config is the content of esb.toml. Relative paths are resolved against the
// directory holding the file.
type Config struct {
	// Command runs the solution, e.g. ["go", "run", "."].
	Command []string `toml:"command"`
	// Dir is the working directory of the solution.
	Dir string `toml:"dir"`
	// Input is the puzzle input file.
	Input string `toml:"input"`
	// Tests is the directory holding *.toml test cases.
	Tests string `toml:"tests"`
	// History is the sqlite database recording runs.
	History string `toml:"history"`
	// Timeout bounds each solution run, e.g. "30s". Empty means no limit.
	Timeout string `toml:"timeout"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Dir:     ".",
		Input:   "input.txt",
		Tests:   "tests",
		History: filepath.Join(".esb", "history.db"),
	}
}

// Load reads the config at path. With an empty path, DefaultPath is tried and
// its absence is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.Dir, &c.Input, &c.Tests, &c.History} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// TimeoutDuration parses Timeout. Zero means no limit.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout: %w", err)
	}
	return d, nil
}
