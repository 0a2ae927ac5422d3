// Package config loads tool configuration from a .pyedit.yaml file.
// Every field has a working default; a missing file is not an error, so
// the CLI runs unconfigured out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no explicit
// path is given.
const DefaultFileName = ".pyedit.yaml"

// Config is the full tool configuration.
type Config struct {
	// Backend selects the mutation backend: "line" or "tree".
	Backend string `yaml:"backend"`

	// Tokenizer selects the instruction tokenizer: "word", "fields" or
	// "tagging".
	Tokenizer string `yaml:"tokenizer"`

	// Synonyms adds extra trigger keywords per base action, merged into
	// the built-in tables. Keys are base actions: add, remove, modify,
	// rename, get.
	Synonyms map[string][]string `yaml:"synonyms"`

	// LogLevel sets the zap level: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Backend:   "line",
		Tokenizer: "word",
		LogLevel:  "info",
	}
}

// Load reads the configuration at path. An empty path falls back to
// .pyedit.yaml in the working directory, and a missing file at either
// location yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(".", DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "", "line", "tree":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Tokenizer {
	case "", "word", "fields", "tagging":
	default:
		return fmt.Errorf("unknown tokenizer %q", c.Tokenizer)
	}
	return nil
}
