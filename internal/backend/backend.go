// Package backend invokes MCP tools on the Loki and Prometheus backends.
//
// Each invocation opens a fresh streamable-HTTP session, performs the MCP
// handshake, calls exactly one tool and closes the session. Requests are
// independent by construction: no shared session state, no retries, no
// cross-request caching.
package backend

import (
	"fmt"

	"github.com/moolen/opsask/internal/routing"
)

// ToolResult is the outcome of a successful tool invocation.
type ToolResult struct {
	// Backend that served the call.
	Backend routing.Backend `json:"backend"`

	// Tool is the MCP tool name that was invoked.
	Tool string `json:"tool"`

	// Args are the arguments the tool was called with.
	Args map[string]interface{} `json:"args"`

	// Payload is the extracted tool output as text. May be empty: an
	// empty but well-formed result (no matching logs, no restarts) is
	// still a success.
	Payload string `json:"payload"`
}

// InvocationError describes a failed tool invocation. It always carries
// the backend identity and the underlying detail so callers can report
// which backend failed and why.
type InvocationError struct {
	Backend routing.Backend
	Tool    string
	Detail  string
	Err     error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s tool %s: %s: %v", e.Backend, e.Tool, e.Detail, e.Err)
	}
	return fmt.Sprintf("backend %s tool %s: %s", e.Backend, e.Tool, e.Detail)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

func invocationErr(backend routing.Backend, tool, detail string, err error) *InvocationError {
	return &InvocationError{Backend: backend, Tool: tool, Detail: detail, Err: err}
}
