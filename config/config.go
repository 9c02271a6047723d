// Package config provides configuration loading for the kdd indexer and
// query engine, following the teacher's DefaultConfig/LoadFromFile/
// Validate/Merge shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete kdd configuration.
type Config struct {
	Index IndexConfig `yaml:"index"`
}

// IndexConfig configures where specifications are read from and where the
// index is written.
type IndexConfig struct {
	// SpecsPath is the root directory of specification documents.
	SpecsPath string `yaml:"specs_path"`
	// IndexPath is the root directory of the artifact tree.
	IndexPath string `yaml:"index_path"`
	// Domain is an optional domain tag recorded in the manifest.
	Domain string `yaml:"domain"`
	// Level forces the index level instead of auto-detecting it from
	// encoder/agent-API availability. Empty means auto-detect.
	Level string `yaml:"level"`
	// MaxChunkChars and OverlapChars override the chunker defaults.
	MaxChunkChars int `yaml:"max_chunk_chars"`
	OverlapChars  int `yaml:"overlap_chars"`
}

// DefaultConfig returns a Config with the spec.md §6 documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			SpecsPath:     "specs",
			IndexPath:     ".kdd-index",
			MaxChunkChars: 1500,
			OverlapChars:  200,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Index.SpecsPath == "" {
		return fmt.Errorf("index.specs_path is required")
	}
	if c.Index.IndexPath == "" {
		return fmt.Errorf("index.index_path is required")
	}
	if c.Index.MaxChunkChars <= 0 {
		return fmt.Errorf("index.max_chunk_chars must be positive")
	}
	if c.Index.OverlapChars < 0 {
		return fmt.Errorf("index.overlap_chars must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, starting from
// DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Merge overlays other onto c, other taking precedence for non-zero
// values.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Index.SpecsPath != "" {
		c.Index.SpecsPath = other.Index.SpecsPath
	}
	if other.Index.IndexPath != "" {
		c.Index.IndexPath = other.Index.IndexPath
	}
	if other.Index.Domain != "" {
		c.Index.Domain = other.Index.Domain
	}
	if other.Index.Level != "" {
		c.Index.Level = other.Index.Level
	}
	if other.Index.MaxChunkChars != 0 {
		c.Index.MaxChunkChars = other.Index.MaxChunkChars
	}
	if other.Index.OverlapChars != 0 {
		c.Index.OverlapChars = other.Index.OverlapChars
	}
}

// ApplyEnv overrides SpecsPath and IndexPath from KDD_SPECS_PATH and
// KDD_INDEX_PATH, per spec.md §6, when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("KDD_SPECS_PATH"); v != "" {
		c.Index.SpecsPath = v
	}
	if v := os.Getenv("KDD_INDEX_PATH"); v != "" {
		c.Index.IndexPath = v
	}
}
