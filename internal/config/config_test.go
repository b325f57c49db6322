package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.APIPort = 0 },
			wantErr: "APIPort",
		},
		{
			name:    "empty loki endpoint",
			mutate:  func(c *Config) { c.LokiEndpoint = "" },
			wantErr: "LokiEndpoint",
		},
		{
			name:    "loki endpoint without scheme",
			mutate:  func(c *Config) { c.LokiEndpoint = "loki-mcp:8000" },
			wantErr: "LokiEndpoint",
		},
		{
			name:    "empty prometheus endpoint",
			mutate:  func(c *Config) { c.PrometheusEndpoint = "" },
			wantErr: "PrometheusEndpoint",
		},
		{
			name:    "unknown summarizer provider",
			mutate:  func(c *Config) { c.SummarizerProvider = "gpt4all" },
			wantErr: "SummarizerProvider",
		},
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "" },
			wantErr: "ModelName",
		},
		{
			name:    "zero backend timeout",
			mutate:  func(c *Config) { c.BackendTimeout = 0 },
			wantErr: "BackendTimeout",
		},
		{
			name:    "zero summary timeout",
			mutate:  func(c *Config) { c.SummaryTimeout = 0 },
			wantErr: "SummaryTimeout",
		},
		{
			name:    "tracing enabled without endpoint",
			mutate:  func(c *Config) { c.TracingEnabled = true },
			wantErr: "TracingEndpoint",
		},
		{
			name: "anthropic provider needs no model endpoint",
			mutate: func(c *Config) {
				c.SummarizerProvider = ProviderAnthropic
				c.ModelEndpoint = ""
				c.ModelName = "claude-3-5-haiku-20241022"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opsask.yaml")
	content := `
backends:
  loki: http://loki.test:8000
  prometheus: http://prom.test:8080
model:
  provider: ollama
  endpoint: http://ollama.test:11434
  name: llama3.2:3b
timeouts:
  backend: 10s
  summary: 20s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, "http://loki.test:8000", cfg.LokiEndpoint)
	assert.Equal(t, "http://prom.test:8080", cfg.PrometheusEndpoint)
	assert.Equal(t, "http://ollama.test:11434", cfg.ModelEndpoint)
	assert.Equal(t, "llama3.2:3b", cfg.ModelName)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 20*time.Second, cfg.SummaryTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFilePartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opsask.yaml")
	content := `
backends:
  loki: http://loki.test:8000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	// Unset fields keep defaults
	assert.Equal(t, "http://loki.test:8000", cfg.LokiEndpoint)
	assert.Equal(t, DefaultPrometheusEndpoint, cfg.PrometheusEndpoint)
	assert.Equal(t, DefaultModelName, cfg.ModelName)
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	err := LoadFile(cfg, "/nonexistent/opsask.yaml")
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LOKI_MCP_URL", "http://env-loki:8000")
	t.Setenv("OLLAMA_MODEL", "qwen2.5:7b")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, "http://env-loki:8000", cfg.LokiEndpoint)
	assert.Equal(t, "qwen2.5:7b", cfg.ModelName)
	assert.Equal(t, DefaultPrometheusEndpoint, cfg.PrometheusEndpoint)
}
