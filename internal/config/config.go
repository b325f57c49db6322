package config

import (
	"fmt"
	"net/url"
	"time"
)

// Summarizer provider identifiers. Closed set, validated at startup.
const (
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for the application.
// Values are resolved once at startup and treated as immutable afterwards.
type Config struct {
	// APIPort is the port the API server listens on
	APIPort int

	// LogLevel is the logging level (debug, info, warn, error)
	LogLevel string

	// LokiEndpoint is the base URL of the Loki MCP server
	LokiEndpoint string

	// PrometheusEndpoint is the base URL of the Prometheus MCP server
	PrometheusEndpoint string

	// BackendTimeout bounds a single backend tool call
	BackendTimeout time.Duration

	// SummarizerProvider selects the summarization backend (ollama, anthropic)
	SummarizerProvider string

	// ModelEndpoint is the base URL of the local model server (ollama provider)
	ModelEndpoint string

	// ModelName is the model identifier passed to the summarizer provider
	ModelName string

	// SummaryTimeout bounds a single summarization call
	SummaryTimeout time.Duration

	// TracingEnabled indicates whether OpenTelemetry tracing is enabled
	TracingEnabled bool

	// TracingEndpoint is the OTLP gRPC endpoint for trace export
	TracingEndpoint string

	// TracingTLSCAPath is the path to the CA certificate for TLS verification
	TracingTLSCAPath string

	// TracingTLSInsecure skips TLS certificate verification
	TracingTLSInsecure bool
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return NewConfigError("APIPort must be between 1 and 65535")
	}

	if err := validateEndpoint("LokiEndpoint", c.LokiEndpoint); err != nil {
		return err
	}

	if err := validateEndpoint("PrometheusEndpoint", c.PrometheusEndpoint); err != nil {
		return err
	}

	if c.BackendTimeout <= 0 {
		return NewConfigError("BackendTimeout must be positive")
	}

	switch c.SummarizerProvider {
	case ProviderOllama:
		if err := validateEndpoint("ModelEndpoint", c.ModelEndpoint); err != nil {
			return err
		}
	case ProviderAnthropic:
		// API key and endpoint come from the SDK environment
	default:
		return NewConfigError(fmt.Sprintf("SummarizerProvider must be one of: %s, %s", ProviderOllama, ProviderAnthropic))
	}

	if c.ModelName == "" {
		return NewConfigError("ModelName must not be empty")
	}

	if c.SummaryTimeout <= 0 {
		return NewConfigError("SummaryTimeout must be positive")
	}

	if c.TracingEnabled && c.TracingEndpoint == "" {
		return NewConfigError("TracingEndpoint must be set when tracing is enabled")
	}

	return nil
}

func validateEndpoint(name, endpoint string) error {
	if endpoint == "" {
		return NewConfigError(fmt.Sprintf("%s must not be empty", name))
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return NewConfigError(fmt.Sprintf("%s must be a valid URL with scheme and host: %q", name, endpoint))
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return e.message
}
