package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moolen/opsask/internal/api"
	"github.com/moolen/opsask/internal/orchestrator"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and exit",
	Long: `Runs the full pipeline once without starting the HTTP server: the
question is routed, the backend tool is invoked and the result is
summarized. Useful for scripting and for trying out route phrasing.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := setupLog(logLevelFlags)
		HandleError(err, "Logging setup error")

		cfg, err := resolveConfig(cmd)
		HandleError(err, "Configuration error")

		pipeline := buildPipeline(cfg, nil)
		question := strings.Join(args, " ")

		resp, err := pipeline.Ask(context.Background(), question)
		var noRoute *orchestrator.NoRouteError
		if errors.As(err, &noRoute) {
			writeNoRouteHelp(cmd.ErrOrStderr(), noRoute)
			os.Exit(1)
		}
		HandleError(err, "Ask failed")

		if askJSON {
			err = api.WriteJSON(cmd.OutOrStdout(), resp)
			HandleError(err, "Encoding error")
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "route:   %s (%s/%s)\n", resp.Route, resp.Backend, resp.Tool)
		fmt.Fprintf(cmd.OutOrStdout(), "summary:\n%s\n", resp.Summary)
		if !resp.Summarized {
			fmt.Fprintf(cmd.OutOrStdout(), "raw result:\n%s\n", resp.RawResult)
		}
	},
}

// writeNoRouteHelp prints the route-miss error together with the question
// forms the router recognizes, so the caller can rephrase.
func writeNoRouteHelp(w io.Writer, noRoute *orchestrator.NoRouteError) {
	fmt.Fprintf(w, "Ask failed: %v\n\nRecognized question forms:\n", noRoute)
	for _, form := range noRoute.RecognizedForms {
		fmt.Fprintf(w, "  - %s\n", form)
	}
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full response as JSON")
	askCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	askCmd.Flags().StringVar(&lokiURL, "loki-url", "", "Loki MCP server base URL")
	askCmd.Flags().StringVar(&prometheusURL, "prometheus-url", "", "Prometheus MCP server base URL")
	askCmd.Flags().StringVar(&summarizerProvider, "summarizer-provider", "", "Summarizer provider (ollama, anthropic)")
	askCmd.Flags().StringVar(&modelEndpoint, "model-endpoint", "", "Model server base URL (ollama provider)")
	askCmd.Flags().StringVar(&modelName, "model-name", "", "Model name for summarization")
}
