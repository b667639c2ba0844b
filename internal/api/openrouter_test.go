package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modforge/uprez/config"
	"github.com/modforge/uprez/internal/logger"
)

func newFakeOpenRouter(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte(
				`data: {"id":"gen-123","choices":[{"delta":{"content":"Hello"}}]}` + "\n\n" +
					`data: {"id":"gen-123","choices":[{"delta":{"content":" world"}}]}` + "\n\n" +
					"data: [DONE]\n\n"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "gen-123",
			"choices": [{"message": {"role": "assistant", "content": "Hello world"}}]
		}`))
	})
	mux.HandleFunc("/generation", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gen-123", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"total_cost": 0.0000425}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *CompletionClient {
	t.Helper()
	c, err := NewCompletionClient(config.OpenRouterConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test/default-model",
	})
	require.NoError(t, err)
	return c
}

func TestNewCompletionClient_RequiresAPIKey(t *testing.T) {
	_, err := NewCompletionClient(config.OpenRouterConfig{BaseURL: "https://openrouter.ai/api/v1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

func TestComplete_Blocking(t *testing.T) {
	srv := newFakeOpenRouter(t)
	c := newTestClient(t, srv.URL)

	text, cost, err := c.Complete(logger.NopContext(), "say hello", "", false)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, "$0.0000425000", cost)
}

func TestComplete_Streaming(t *testing.T) {
	srv := newFakeOpenRouter(t)
	c := newTestClient(t, srv.URL)

	text, cost, err := c.Complete(logger.NopContext(), "say hello", "test/model", true)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, "$0.0000425000", cost)
}

func TestComplete_CostFailureIsNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "gen-9", "choices": [{"message": {"content": "ok"}}]}`))
	})
	mux.HandleFunc("/generation", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	text, cost, err := c.Complete(logger.NopContext(), "hi", "", false)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Empty(t, cost)
}

func TestComplete_UpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "model not found"}}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, _, err := c.Complete(logger.NopContext(), "hi", "bad/model", false)
	assert.Error(t, err)
}
