// Package telemetry provides OpenTelemetry instrumentation for the catalog server.
// Traces export over OTLP; metrics export over OTLP, a Prometheus scrape
// endpoint, or both.
package telemetry

import (
	"errors"
	"fmt"
)

// Defaults applied when the telemetry block leaves a field empty
const (
	DefaultServiceName = "popguide-catalog"
	DefaultEndpoint    = "localhost:4318"
	// DefaultSampling keeps one catalog request trace in twenty
	DefaultSampling = 0.05
)

// Config is the telemetry block of the server configuration.
// A nil or disabled Config yields no-op providers.
type Config struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"serviceName,omitempty"`
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP/HTTP collector as host:port. The exporters append
	// /v1/traces and /v1/metrics themselves.
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig controls span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is a parent-based ratio in [0, 1]. Zero means DefaultSampling,
	// YAML cannot tell an explicit 0 from an absent key.
	Sampling float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig controls metric export
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Prometheus serves the catalog and HTTP instruments on /metrics
	Prometheus bool `yaml:"prometheus,omitempty"`

	// OTLP pushes to Config.Endpoint. Unset means "only when Prometheus is off".
	OTLP *bool `yaml:"otlp,omitempty"`
}

// UseOTLP reports whether metrics are pushed over OTLP
func (c *MetricsConfig) UseOTLP() bool {
	if c.OTLP == nil {
		return !c.Prometheus
	}
	return *c.OTLP
}

// UsePrometheus reports whether a scrape registry is needed
func (c *Config) UsePrometheus() bool {
	return c != nil && c.Enabled && c.Metrics != nil && c.Metrics.Enabled && c.Metrics.Prometheus
}

// GetServiceName returns ServiceName or DefaultServiceName
func (c *Config) GetServiceName() string {
	return orDefault(c.ServiceName, DefaultServiceName)
}

// GetServiceVersion returns ServiceVersion or "unknown"
func (c *Config) GetServiceVersion() string {
	return orDefault(c.ServiceVersion, "unknown")
}

// GetEndpoint returns Endpoint or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	return orDefault(c.Endpoint, DefaultEndpoint)
}

// GetInsecure returns the insecure flag
func (c *Config) GetInsecure() bool {
	return c.Insecure
}

// GetSampling returns the configured ratio, DefaultSampling when unset
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0 {
		return DefaultSampling
	}
	return c.Sampling
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Validate checks the nested blocks of an enabled configuration
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	return errors.Join(errs...)
}

// Validate checks the sampling ratio of enabled tracing
func (c *TracingConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.Sampling < 0 || c.Sampling > 1 {
		return fmt.Errorf("sampling must be between 0.0 and 1.0, got %f", c.Sampling)
	}
	return nil
}

// Validate rejects enabled metrics with no exporter
func (c *MetricsConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if !c.Prometheus && !c.UseOTLP() {
		return errors.New("at least one of prometheus or otlp must be enabled")
	}
	return nil
}
