package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults match the in-cluster deployment of the monitoring stack.
const (
	DefaultAPIPort            = 8080
	DefaultLokiEndpoint       = "http://loki-mcp.monitoring.svc.cluster.local:8000"
	DefaultPrometheusEndpoint = "http://prometheus-mcp.monitoring.svc.cluster.local:8080"
	DefaultModelEndpoint      = "http://ollama-external.ai.svc.cluster.local:11434"
	DefaultModelName          = "phi4-mini:latest"
	DefaultBackendTimeout     = 30 * time.Second
	DefaultSummaryTimeout     = 60 * time.Second
)

// FileConfig is the YAML schema for the optional config file.
//
//	backends:
//	  loki: http://loki-mcp:8000
//	  prometheus: http://prometheus-mcp:8080
//	model:
//	  provider: ollama
//	  endpoint: http://ollama:11434
//	  name: phi4-mini:latest
type FileConfig struct {
	Backends struct {
		Loki       string `yaml:"loki"`
		Prometheus string `yaml:"prometheus"`
	} `yaml:"backends"`
	Model struct {
		Provider string `yaml:"provider"`
		Endpoint string `yaml:"endpoint"`
		Name     string `yaml:"name"`
	} `yaml:"model"`
	Timeouts struct {
		Backend time.Duration `yaml:"backend"`
		Summary time.Duration `yaml:"summary"`
	} `yaml:"timeouts"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		APIPort:            DefaultAPIPort,
		LogLevel:           "info",
		LokiEndpoint:       DefaultLokiEndpoint,
		PrometheusEndpoint: DefaultPrometheusEndpoint,
		BackendTimeout:     DefaultBackendTimeout,
		SummarizerProvider: ProviderOllama,
		ModelEndpoint:      DefaultModelEndpoint,
		ModelName:          DefaultModelName,
		SummaryTimeout:     DefaultSummaryTimeout,
	}
}

// LoadFile loads and applies an optional YAML config file on top of cfg
// using Koanf. Unset file fields leave cfg untouched.
//
// Error cases:
//   - file not found or unreadable
//   - invalid YAML syntax
func LoadFile(cfg *Config, filepath string) error {
	k := koanf.New(".")

	if err := k.Load(file.Provider(filepath), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config from %q: %w", filepath, err)
	}

	var fc FileConfig
	if err := k.UnmarshalWithConf("", &fc, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return fmt.Errorf("failed to parse config from %q: %w", filepath, err)
	}

	if fc.Backends.Loki != "" {
		cfg.LokiEndpoint = fc.Backends.Loki
	}
	if fc.Backends.Prometheus != "" {
		cfg.PrometheusEndpoint = fc.Backends.Prometheus
	}
	if fc.Model.Provider != "" {
		cfg.SummarizerProvider = fc.Model.Provider
	}
	if fc.Model.Endpoint != "" {
		cfg.ModelEndpoint = fc.Model.Endpoint
	}
	if fc.Model.Name != "" {
		cfg.ModelName = fc.Model.Name
	}
	if fc.Timeouts.Backend > 0 {
		cfg.BackendTimeout = fc.Timeouts.Backend
	}
	if fc.Timeouts.Summary > 0 {
		cfg.SummaryTimeout = fc.Timeouts.Summary
	}

	return nil
}

// ApplyEnv applies environment variable overrides on top of cfg.
// Env wins over file values; CLI flags are applied last by the caller.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("LOKI_MCP_URL"); v != "" {
		cfg.LokiEndpoint = v
	}
	if v := os.Getenv("PROMETHEUS_MCP_URL"); v != "" {
		cfg.PrometheusEndpoint = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.ModelEndpoint = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.ModelName = v
	}
	if v := os.Getenv("SUMMARIZER_PROVIDER"); v != "" {
		cfg.SummarizerProvider = v
	}
}
