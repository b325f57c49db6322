package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/moolen/opsask/internal/apiserver"
	"github.com/moolen/opsask/internal/backend"
	"github.com/moolen/opsask/internal/config"
	"github.com/moolen/opsask/internal/lifecycle"
	"github.com/moolen/opsask/internal/logging"
	"github.com/moolen/opsask/internal/orchestrator"
	"github.com/moolen/opsask/internal/routing"
	"github.com/moolen/opsask/internal/summarizer"
	"github.com/moolen/opsask/internal/tracing"
)

var (
	configPath         string
	apiPort            int
	lokiURL            string
	prometheusURL      string
	summarizerProvider string
	modelEndpoint      string
	modelName          string
	backendTimeout     time.Duration
	summaryTimeout     time.Duration
	tracingEnabled     bool
	tracingEndpoint    string
	tracingTLSCAPath   string
	tracingTLSInsecure bool
	shutdownTimeout    time.Duration
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the opsask HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		err := setupLog(logLevelFlags)
		HandleError(err, "Logging setup error")
		logger := logging.GetLogger("server")

		cfg, err := resolveConfig(cmd)
		HandleError(err, "Configuration error")

		manager := lifecycle.NewManager()
		manager.SetShutdownTimeout(shutdownTimeout)

		tracingProvider, err := tracing.NewProvider(tracing.Config{
			Enabled:     cfg.TracingEnabled,
			Endpoint:    cfg.TracingEndpoint,
			TLSCAPath:   cfg.TracingTLSCAPath,
			TLSInsecure: cfg.TracingTLSInsecure,
		})
		HandleError(err, "Tracing setup error")
		err = manager.Register(tracingProvider)
		HandleError(err, "Component registration error")

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		pipeline := buildPipeline(cfg, registry)

		server := apiserver.New(cfg.APIPort, pipeline, registry)
		err = manager.Register(server, tracingProvider)
		HandleError(err, "Component registration error")

		ctx := context.Background()
		err = manager.Start(ctx)
		HandleError(err, "Startup error")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := manager.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown error: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	serverCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	serverCmd.Flags().IntVar(&apiPort, "port", config.DefaultAPIPort, "API server port")
	serverCmd.Flags().StringVar(&lokiURL, "loki-url", "", "Loki MCP server base URL")
	serverCmd.Flags().StringVar(&prometheusURL, "prometheus-url", "", "Prometheus MCP server base URL")
	serverCmd.Flags().StringVar(&summarizerProvider, "summarizer-provider", "", "Summarizer provider (ollama, anthropic)")
	serverCmd.Flags().StringVar(&modelEndpoint, "model-endpoint", "", "Model server base URL (ollama provider)")
	serverCmd.Flags().StringVar(&modelName, "model-name", "", "Model name for summarization")
	serverCmd.Flags().DurationVar(&backendTimeout, "backend-timeout", config.DefaultBackendTimeout, "Timeout for one backend tool call")
	serverCmd.Flags().DurationVar(&summaryTimeout, "summary-timeout", config.DefaultSummaryTimeout, "Timeout for one summarization call")
	serverCmd.Flags().BoolVar(&tracingEnabled, "tracing-enabled", false, "Enable OpenTelemetry tracing")
	serverCmd.Flags().StringVar(&tracingEndpoint, "tracing-endpoint", "", "OTLP gRPC endpoint for trace export")
	serverCmd.Flags().StringVar(&tracingTLSCAPath, "tracing-tls-ca", "", "CA certificate path for trace export TLS")
	serverCmd.Flags().BoolVar(&tracingTLSInsecure, "tracing-tls-insecure", false, "Skip TLS verification for trace export")
	serverCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Per-component shutdown grace period")
}

// resolveConfig builds the effective configuration. Precedence, lowest to
// highest: built-in defaults, config file, environment, CLI flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if configPath != "" {
		if err := config.LoadFile(cfg, configPath); err != nil {
			return nil, err
		}
	}

	config.ApplyEnv(cfg)

	if cmd.Flags().Changed("port") {
		cfg.APIPort = apiPort
	}
	if lokiURL != "" {
		cfg.LokiEndpoint = lokiURL
	}
	if prometheusURL != "" {
		cfg.PrometheusEndpoint = prometheusURL
	}
	if summarizerProvider != "" {
		cfg.SummarizerProvider = summarizerProvider
	}
	if modelEndpoint != "" {
		cfg.ModelEndpoint = modelEndpoint
	}
	if modelName != "" {
		cfg.ModelName = modelName
	}
	if cmd.Flags().Changed("backend-timeout") {
		cfg.BackendTimeout = backendTimeout
	}
	if cmd.Flags().Changed("summary-timeout") {
		cfg.SummaryTimeout = summaryTimeout
	}
	if cmd.Flags().Changed("tracing-enabled") {
		cfg.TracingEnabled = tracingEnabled
	}
	if tracingEndpoint != "" {
		cfg.TracingEndpoint = tracingEndpoint
	}
	if tracingTLSCAPath != "" {
		cfg.TracingTLSCAPath = tracingTLSCAPath
	}
	if cmd.Flags().Changed("tracing-tls-insecure") {
		cfg.TracingTLSInsecure = tracingTLSInsecure
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildPipeline assembles the question pipeline from configuration.
// A nil registry skips metrics, for one-shot CLI use.
func buildPipeline(cfg *config.Config, registry *prometheus.Registry) *orchestrator.Orchestrator {
	var metrics *backend.Metrics
	if registry != nil {
		metrics = backend.NewMetrics(registry)
	}

	client := backend.NewClient(cfg.LokiEndpoint, cfg.PrometheusEndpoint, cfg.BackendTimeout, metrics)

	var provider summarizer.Provider
	switch cfg.SummarizerProvider {
	case config.ProviderAnthropic:
		provider = summarizer.NewAnthropicProvider(cfg.ModelName)
	default:
		provider = summarizer.NewOllamaProvider(cfg.ModelEndpoint, cfg.ModelName, cfg.SummaryTimeout)
	}

	return orchestrator.New(routing.NewTable(), client, summarizer.New(provider))
}
