package logger

import (
	"fmt"
	"slices"
	"strings"
)

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	formats = []string{"json", "console", "pretty"}
)

// Config is the logging section of the service config.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"` // json, console or pretty
	Output    string `yaml:"output" mapstructure:"output"` // stdout or stderr
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults selects info-level console output on stdout. Timestamps are
// always on.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

func (c *Config) Validate() error {
	if !slices.Contains(levels, c.Level) {
		return fmt.Errorf("logging.level %q is not one of %s", c.Level, strings.Join(levels, ", "))
	}
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("logging.format %q is not one of %s", c.Format, strings.Join(formats, ", "))
	}
	return nil
}

func (c *Config) isConsole() bool {
	f := strings.ToLower(c.Format)
	return f == "console" || f == "pretty"
}
