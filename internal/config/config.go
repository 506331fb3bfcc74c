// Package config loads and validates the sigcat configuration.
package config

import (
	"strings"
)

// Config is the complete sigcat configuration. It can be loaded from a
// .sigcat.yaml file with environment variable overrides.
type Config struct {
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Rules  RulesConfig  `yaml:"rules" mapstructure:"rules"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// SourceConfig selects which files enter the pipeline.
type SourceConfig struct {
	Root       string   `yaml:"root" mapstructure:"root"`             // library source tree root
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // recognized source extensions
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`         // glob patterns to skip
}

// RulesConfig tunes the validation pass.
type RulesConfig struct {
	// IgnoreFunctions is a comma-delimited list of identifiers dropped
	// before validation, e.g. "j0,j1,jn".
	IgnoreFunctions string `yaml:"ignore_functions" mapstructure:"ignore_functions"`
	// Strict fails the whole run when any validation error is recorded.
	Strict bool `yaml:"strict" mapstructure:"strict"`
	// Diagnostics emits one line per validation error.
	Diagnostics bool `yaml:"diagnostics" mapstructure:"diagnostics"`
}

// OutputConfig selects the generation target.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "json" or "sqlite"
	Path   string `yaml:"path" mapstructure:"path"`     // output file, stdout for json when empty
}

// Formats supported by the output target.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Root:       ".",
			Extensions: []string{".rs"},
			Ignore: []string{
				"target/**",
				".git/**",
			},
		},
		Rules: RulesConfig{
			Strict:      false,
			Diagnostics: true,
		},
		Output: OutputConfig{
			Format: FormatJSON,
		},
	}
}

// IgnoredFunctions parses the comma-delimited ignore list into a set.
// Whitespace around entries is tolerated; empty entries are dropped.
func (r *RulesConfig) IgnoredFunctions() map[string]struct{} {
	set := make(map[string]struct{})
	for _, entry := range strings.Split(r.IgnoreFunctions, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		set[entry] = struct{}{}
	}
	return set
}
