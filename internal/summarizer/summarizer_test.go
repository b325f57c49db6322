package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestSummarizeSuccess(t *testing.T) {
	provider := &fakeProvider{response: "- three pods restarted\n- all in payments\n- started 20m ago"}
	s := New(provider)

	result := s.Summarize(context.Background(), "raw tool output here")

	assert.True(t, result.Summarized)
	assert.Equal(t, provider.response, result.Summary)
}

func TestSummarizeDegradesOnFailure(t *testing.T) {
	s := New(&fakeProvider{err: errors.New("model unreachable")})

	result := s.Summarize(context.Background(), "raw tool output here")

	assert.False(t, result.Summarized)
	assert.Equal(t, UnavailableMarker, result.Summary)
}

// The prompt carries the tool output and the fixed instruction, and
// nothing else. In particular the user's question never reaches the model.
func TestPromptContainsOnlyToolOutput(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	s := New(provider)

	question := "why is the payments namespace broken?"
	toolOutput := `{"restarts": 3, "namespace": "payments"}`
	s.Summarize(context.Background(), toolOutput)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], toolOutput)
	assert.NotContains(t, provider.prompts[0], question)
}

func TestOllamaProviderComplete(t *testing.T) {
	var gotPath, gotModel, gotPrompt string
	var gotStream bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req ollamaGenerateRequest
		require.NoError(t, decodeJSON(r, &req))
		gotModel, gotPrompt, gotStream = req.Model, req.Prompt, req.Stream

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "  - nothing notable\n"}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "phi4-mini:latest", 5*time.Second)
	out, err := p.Complete(context.Background(), "summarize this")

	require.NoError(t, err)
	assert.Equal(t, "- nothing notable", out)
	assert.Equal(t, "/api/generate", gotPath)
	assert.Equal(t, "phi4-mini:latest", gotModel)
	assert.Equal(t, "summarize this", gotPrompt)
	assert.False(t, gotStream)
}

func TestOllamaProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "phi4-mini:latest", 5*time.Second)
	_, err := p.Complete(context.Background(), "summarize this")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOllamaProviderMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "phi4-mini:latest", 5*time.Second)
	_, err := p.Complete(context.Background(), "summarize this")

	require.Error(t, err)
}

func TestOllamaProviderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "phi4-mini:latest", 100*time.Millisecond)
	_, err := p.Complete(context.Background(), "summarize this")

	require.Error(t, err)
}

func TestOllamaProviderUnreachable(t *testing.T) {
	p := NewOllamaProvider("http://127.0.0.1:1", "phi4-mini:latest", time.Second)
	_, err := p.Complete(context.Background(), "summarize this")

	require.Error(t, err)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}
