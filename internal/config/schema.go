// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for parley.
package config

import "gopkg.in/yaml.v3"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "gateway.http").
	Modules map[string]yaml.Node `yaml:"modules"`

	// Tracing holds optional OpenTelemetry export settings.
	Tracing *TracingConfig `yaml:"tracing,omitempty"`
}

// TracingConfig controls OTLP trace export. When Endpoint is empty, spans
// are recorded with a no-op provider.
type TracingConfig struct {
	// Endpoint is the OTLP/HTTP collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the exporter connection.
	Insecure bool `yaml:"insecure,omitempty"`
}
