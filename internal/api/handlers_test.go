package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moolen/opsask/internal/backend"
	"github.com/moolen/opsask/internal/orchestrator"
	"github.com/moolen/opsask/internal/routing"
)

type fakeAsker struct {
	resp *orchestrator.Response
	err  error
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (*orchestrator.Response, error) {
	return f.resp, f.err
}

func (f *fakeAsker) Routes() []routing.Route {
	return routing.NewTable().Routes()
}

func doAsk(t *testing.T, asker Asker, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewAskHandler(asker)
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestAskHandlerSuccess(t *testing.T) {
	asker := &fakeAsker{resp: &orchestrator.Response{
		Question:   "what errors are happening",
		Route:      "loki-errors",
		Backend:    routing.BackendLoki,
		Tool:       "get_error_summary",
		Args:       map[string]interface{}{"namespace": "", "hours": 1},
		RawResult:  `{"errors": 3}`,
		Summary:    "- 3 errors",
		Summarized: true,
	}}

	rec := doAsk(t, asker, `{"question": "what errors are happening"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp orchestrator.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "loki-errors", resp.Route)
	assert.Equal(t, `{"errors": 3}`, resp.RawResult)
	assert.True(t, resp.Summarized)
}

func TestAskHandlerEmptyQuestion(t *testing.T) {
	rec := doAsk(t, &fakeAsker{}, `{"question": ""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, string(ErrorCodeInvalidRequest), errResp.Error)
}

func TestAskHandlerMalformedBody(t *testing.T) {
	rec := doAsk(t, &fakeAsker{}, `{not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, string(ErrorCodeInvalidRequest), errResp.Error)
}

func TestAskHandlerNoRouteMatch(t *testing.T) {
	asker := &fakeAsker{err: &orchestrator.NoRouteError{
		Question:        "what is the weather today",
		RecognizedForms: []string{"what errors are happening?"},
	}}

	rec := doAsk(t, asker, `{"question": "what is the weather today"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, string(ErrorCodeNoRouteMatch), errResp.Error)
	assert.NotEmpty(t, errResp.RecognizedForms)
}

func TestAskHandlerBackendFailure(t *testing.T) {
	asker := &fakeAsker{err: &backend.InvocationError{
		Backend: routing.BackendPrometheus,
		Tool:    "health_check",
		Detail:  "connect: connection refused",
	}}

	rec := doAsk(t, asker, `{"question": "is prometheus healthy"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, string(ErrorCodeToolInvocationFailed), errResp.Error)
	// Backend identity and raw detail survive into the response.
	assert.Contains(t, errResp.Message, "prometheus")
	assert.Contains(t, errResp.Message, "connection refused")
}

func TestRoutesHandler(t *testing.T) {
	handler := NewRoutesHandler(&fakeAsker{})
	req := httptest.NewRequest(http.MethodGet, "/v1/routes", nil)
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RoutesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Routes, 6)
	assert.Equal(t, "prometheus-health", resp.Routes[0].ID)
	assert.Equal(t, "loki-errors", resp.Routes[5].ID)
	for _, route := range resp.Routes {
		assert.NotEmpty(t, route.Tool)
		assert.NotEmpty(t, route.Form)
	}
}
