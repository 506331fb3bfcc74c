package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration, starting from defaults. When path is non-empty
// that exact file is used; otherwise .sigcat.yaml is searched in the current
// directory. Environment variables prefixed SIGCAT_ override file values
// (e.g. SIGCAT_RULES_STRICT=true). A missing config file is not an error:
// defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".sigcat")
	}

	v.SetEnvPrefix("SIGCAT")
	v.AutomaticEnv()

	cfg := Default()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist; the searched default is
		// optional.
		if path != "" {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers cfg's values as viper defaults so partial files
// only override what they name.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("source.root", cfg.Source.Root)
	v.SetDefault("source.extensions", cfg.Source.Extensions)
	v.SetDefault("source.ignore", cfg.Source.Ignore)
	v.SetDefault("rules.ignore_functions", cfg.Rules.IgnoreFunctions)
	v.SetDefault("rules.strict", cfg.Rules.Strict)
	v.SetDefault("rules.diagnostics", cfg.Rules.Diagnostics)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.path", cfg.Output.Path)
}
