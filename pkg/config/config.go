// Package config loads the optional YAML configuration file read by
// cmd/interp's -config flag, per spec.md §6.5. Grounded on the
// teacher's pkg/driver/manifest.go: a yaml.v3 decoder with KnownFields
// set so a typo'd key is a load error rather than silently ignored,
// wrapped errors identifying the failing path, and a validate() pass
// separate from decoding.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the REPL/runner settings a user may override via YAML.
// Every field has a zero-value-safe default applied by Load when the
// key is absent from the file.
type Config struct {
	Prompt      string     `yaml:"prompt"`
	HistoryFile string     `yaml:"history_file"`
	Builtins    BuiltinSet `yaml:"builtins"`
}

// BuiltinSet toggles individual built-in functions off, per spec.md
// §6.2's note that a host may want to sandbox I/O-performing builtins.
type BuiltinSet struct {
	Input bool `yaml:"input"`
	Clock bool `yaml:"clock"`
}

// Default returns the configuration cmd/interp uses when no -config
// flag is given.
func Default() *Config {
	return &Config{
		Prompt:      "> ",
		HistoryFile: "",
		Builtins:    BuiltinSet{Input: true, Clock: true},
	}
}

// Load parses path and returns a fully-defaulted Config. An empty path
// is not an error: it returns Default() unchanged, matching spec.md's
// "config is entirely optional" rule.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw rawConfig
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	raw.applyTo(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Prompt == "" {
		return errors.New("prompt must not be empty")
	}
	return nil
}

// rawConfig mirrors Config but with pointer fields, so Load can tell
// "key present with zero value" apart from "key absent" and leave
// Default()'s value in place for the latter.
type rawConfig struct {
	Prompt      *string        `yaml:"prompt"`
	HistoryFile *string        `yaml:"history_file"`
	Builtins    *rawBuiltinSet `yaml:"builtins"`
}

type rawBuiltinSet struct {
	Input *bool `yaml:"input"`
	Clock *bool `yaml:"clock"`
}

func (r rawConfig) applyTo(cfg *Config) {
	if r.Prompt != nil {
		cfg.Prompt = *r.Prompt
	}
	if r.HistoryFile != nil {
		cfg.HistoryFile = *r.HistoryFile
	}
	if r.Builtins != nil {
		if r.Builtins.Input != nil {
			cfg.Builtins.Input = *r.Builtins.Input
		}
		if r.Builtins.Clock != nil {
			cfg.Builtins.Clock = *r.Builtins.Clock
		}
	}
}
