package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/opsask/internal/orchestrator"
	"github.com/moolen/opsask/internal/routing"
)

type stubAsker struct{}

func (s *stubAsker) Ask(ctx context.Context, question string) (*orchestrator.Response, error) {
	return &orchestrator.Response{
		Question:   question,
		Route:      "loki-errors",
		Backend:    routing.BackendLoki,
		Tool:       "get_error_summary",
		RawResult:  "raw",
		Summary:    "- summary",
		Summarized: true,
	}, nil
}

func (s *stubAsker) Routes() []routing.Route {
	return routing.NewTable().Routes()
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(0, &stubAsker{}, prometheus.NewRegistry())
	ts := httptest.NewServer(s.corsMiddleware(s.router))
	t.Cleanup(ts.Close)
	return ts
}

func TestServerEndpoints(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"ask", http.MethodPost, "/v1/ask", `{"question": "what errors are happening"}`, http.StatusOK},
		{"ask wrong method", http.MethodGet, "/v1/ask", "", http.StatusMethodNotAllowed},
		{"routes", http.MethodGet, "/v1/routes", "", http.StatusOK},
		{"routes wrong method", http.MethodPost, "/v1/routes", "", http.StatusMethodNotAllowed},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready", http.MethodGet, "/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestServerAskResponseBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/ask", "application/json",
		strings.NewReader(`{"question": "what errors are happening"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body orchestrator.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "loki-errors", body.Route)
	assert.Equal(t, "raw", body.RawResult)
	assert.True(t, body.Summarized)
}

func TestServerCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/ask", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
