package observability

import (
	"fmt"
	"time"
)

// Config controls OTLP export of traces and metrics.
type Config struct {
	// Enabled installs the SDK providers. When false, otel stays no-op.
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g. "localhost:4318").
	Endpoint string `mapstructure:"endpoint"`
	// Insecure disables TLS for the exporter.
	Insecure bool `mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
	// MetricInterval is the metric export interval (e.g. "15s").
	MetricInterval string `mapstructure:"metric_interval"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == "" {
		c.MetricInterval = "15s"
	}
}

// Validate checks that fields are parseable.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %v", c.SampleRate)
	}
	if _, err := time.ParseDuration(c.MetricInterval); err != nil {
		return fmt.Errorf("invalid metric_interval %q: %w", c.MetricInterval, err)
	}
	return nil
}

func (c *Config) interval() time.Duration {
	d, _ := time.ParseDuration(c.MetricInterval)
	return d
}
