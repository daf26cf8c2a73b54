package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientChatSendsOptions(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2:1b","message":{"role":"assistant","content":"A tidy summary."},"done":true,"prompt_eval_count":30,"eval_count":8}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 0)
	resp, err := client.Chat(context.Background(), ChatRequest{
		Model: "llama3.2:1b",
		Messages: []Message{
			{Role: "system", Content: "instructions"},
			{Role: "user", Content: "TEXT:\nbody"},
		},
		Stream: true,
		Options: Options{Temperature: 0.65, TopP: 0.95, NumCtx: 4096, NumPredict: 256, RepeatPenalty: 1.15},
	})
	require.NoError(t, err)
	require.Equal(t, "A tidy summary.", resp.Message.Content)
	require.Equal(t, 38, resp.Usage().TotalTokens)

	require.Equal(t, false, captured["stream"])
	options := captured["options"].(map[string]any)
	require.Equal(t, 0.65, options["temperature"])
	require.Equal(t, 0.95, options["top_p"])
	require.Equal(t, float64(4096), options["num_ctx"])
	require.Equal(t, float64(256), options["num_predict"])
	require.Equal(t, 1.15, options["repeat_penalty"])
	require.Len(t, captured["messages"], 2)
}

func TestClientChatOmitsOptionalOptions(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"done":true}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Chat(context.Background(), ChatRequest{
		Model:   "m",
		Options: Options{Temperature: 0, TopP: 0.95, NumCtx: 4096},
	})
	require.NoError(t, err)
	options := captured["options"].(map[string]any)
	require.Contains(t, options, "temperature")
	require.NotContains(t, options, "num_predict")
	require.NotContains(t, options, "repeat_penalty")
}

func TestClientChatSurfacesServiceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'missing' not found"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).Chat(context.Background(), ChatRequest{Model: "missing"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=404")
	require.Contains(t, err.Error(), "model 'missing' not found")
}

func TestClientChatTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, 0).Chat(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "request chat")
}
