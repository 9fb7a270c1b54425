// SPDX-License-Identifier: BSD-3-Clause

package telemetry

// ExporterType selects where telemetry data goes.
type ExporterType int

const (
	// NoOp discards all telemetry data with minimal overhead.
	NoOp ExporterType = iota
	// Stdout writes traces and metrics to stdout, for local debugging on a
	// board with no telemetry collector reachable over the network.
	Stdout
)

// Config holds the configuration for the telemetry providers.
type Config struct {
	exporterType   ExporterType
	serviceName    string
	serviceVersion string
	enableMetrics  bool
	enableTraces   bool
	samplingRatio  float64
	resourceAttrs  map[string]string
}

// DefaultConfig returns the no-op configuration.
func DefaultConfig() *Config {
	return &Config{
		exporterType:   NoOp,
		serviceName:    "fand",
		serviceVersion: "1.0.0",
		enableMetrics:  true,
		enableTraces:   true,
		samplingRatio:  1.0,
		resourceAttrs:  make(map[string]string),
	}
}

// Option defines a function that modifies the telemetry configuration.
type Option func(*Config)

// WithExporterType selects NoOp or Stdout.
func WithExporterType(exporterType ExporterType) Option {
	return func(c *Config) { c.exporterType = exporterType }
}

// WithServiceName sets the service name reported on every span and metric.
func WithServiceName(name string) Option {
	return func(c *Config) { c.serviceName = name }
}

// WithServiceVersion sets the service version reported alongside the name.
func WithServiceVersion(version string) Option {
	return func(c *Config) { c.serviceVersion = version }
}

// WithMetrics enables or disables metrics collection.
func WithMetrics(enabled bool) Option {
	return func(c *Config) { c.enableMetrics = enabled }
}

// WithTraces enables or disables trace collection.
func WithTraces(enabled bool) Option {
	return func(c *Config) { c.enableTraces = enabled }
}

// WithSamplingRatio sets the sampling ratio for traces (0.0 to 1.0).
func WithSamplingRatio(ratio float64) Option {
	return func(c *Config) {
		switch {
		case ratio < 0.0:
			ratio = 0.0
		case ratio > 1.0:
			ratio = 1.0
		}
		c.samplingRatio = ratio
	}
}

// WithResourceAttributes sets additional resource attributes for telemetry data.
func WithResourceAttributes(attrs map[string]string) Option {
	return func(c *Config) { c.resourceAttrs = attrs }
}
