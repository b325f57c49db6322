package backend

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/moolen/opsask/internal/logging"
	"github.com/moolen/opsask/internal/routing"
)

const clientName = "opsask"

// Client invokes MCP tools over streamable HTTP. It holds one endpoint per
// backend and opens a fresh session for every invocation.
type Client struct {
	endpoints map[routing.Backend]string
	timeout   time.Duration
	metrics   *Metrics
	logger    *logging.Logger
}

// NewClient creates a backend client. Endpoints are base URLs; the MCP
// protocol path is derived from them. The timeout bounds the whole
// invocation including the MCP handshake.
func NewClient(lokiEndpoint, prometheusEndpoint string, timeout time.Duration, metrics *Metrics) *Client {
	return &Client{
		endpoints: map[routing.Backend]string{
			routing.BackendLoki:       mcpEndpoint(lokiEndpoint),
			routing.BackendPrometheus: mcpEndpoint(prometheusEndpoint),
		},
		timeout: timeout,
		metrics: metrics,
		logger:  logging.GetLogger("backend"),
	}
}

// Invoke calls a single MCP tool on the given backend and returns the
// extracted result. Any failure along the way (unreachable endpoint,
// handshake failure, tool error, timeout) is returned as an
// *InvocationError; there are no retries.
func (c *Client) Invoke(ctx context.Context, backend routing.Backend, tool string, args map[string]interface{}) (*ToolResult, error) {
	endpoint, ok := c.endpoints[backend]
	if !ok {
		return nil, invocationErr(backend, tool, "no endpoint configured", nil)
	}

	start := time.Now()
	result, err := c.invoke(ctx, endpoint, backend, tool, args)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.ObserveInvocation(backend, tool, elapsed, err)
	}

	if err != nil {
		c.logger.ErrorWithErr("tool invocation failed", err)
		return nil, err
	}

	c.logger.DebugWithFields("tool invocation succeeded",
		logging.Field("backend", string(backend)),
		logging.Field("tool", tool),
		logging.Field("duration_ms", elapsed.Milliseconds()),
	)
	return result, nil
}

// mcpEndpoint derives the MCP endpoint from a configured base URL. The
// backend servers mount the streamable HTTP handler at /mcp.
func mcpEndpoint(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(base, "/mcp") {
		return base
	}
	return base + "/mcp"
}

func (c *Client) invoke(ctx context.Context, endpoint string, backend routing.Backend, tool string, args map[string]interface{}) (*ToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := mcpclient.NewStreamableHttpClient(endpoint, transport.WithHTTPTimeout(c.timeout))
	if err != nil {
		return nil, invocationErr(backend, tool, "create session", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			c.logger.Debug("session close failed: %v", cerr)
		}
	}()

	if err := session.Start(ctx); err != nil {
		return nil, invocationErr(backend, tool, "start session", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: "1.0.0",
	}
	if _, err := session.Initialize(ctx, initReq); err != nil {
		return nil, invocationErr(backend, tool, "initialize session", err)
	}

	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = tool
	callReq.Params.Arguments = args

	result, err := session.CallTool(ctx, callReq)
	if err != nil {
		return nil, invocationErr(backend, tool, "call tool", err)
	}

	payload := extractPayload(result)
	if result.IsError {
		// Tool-level failure: the backend answered, but the tool itself
		// reported an error. The raw detail is preserved verbatim.
		return nil, invocationErr(backend, tool, "tool reported error: "+payload, nil)
	}

	return &ToolResult{
		Backend: backend,
		Tool:    tool,
		Args:    args,
		Payload: payload,
	}, nil
}

// extractPayload pulls a textual payload out of a tool result. Preference
// order: the "result" field of structured content, then concatenated text
// content blocks, then the JSON form of the whole result.
func extractPayload(result *mcp.CallToolResult) string {
	if sc, ok := result.StructuredContent.(map[string]interface{}); ok {
		if raw, ok := sc["result"]; ok {
			if s, ok := raw.(string); ok {
				return s
			}
			if data, err := json.Marshal(raw); err == nil {
				return string(data)
			}
		}
	}

	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n")
	}

	if data, err := json.Marshal(result); err == nil {
		return string(data)
	}
	return ""
}
