package config

import "fmt"

// Validate checks the configuration for values the pipeline cannot work
// with, returning a descriptive error for the first problem found.
func (c *Config) Validate() error {
	if c.Source.Root == "" {
		return fmt.Errorf("source.root must not be empty")
	}
	if len(c.Source.Extensions) == 0 {
		return fmt.Errorf("source.extensions must name at least one extension")
	}
	for _, ext := range c.Source.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("source.extensions contains an empty extension")
		}
	}

	switch c.Output.Format {
	case FormatJSON:
		// Path optional: empty means stdout.
	case FormatSQLite:
		if c.Output.Path == "" {
			return fmt.Errorf("output.path is required for the sqlite format")
		}
	default:
		return fmt.Errorf("unknown output format %q (want %q or %q)",
			c.Output.Format, FormatJSON, FormatSQLite)
	}

	return nil
}
