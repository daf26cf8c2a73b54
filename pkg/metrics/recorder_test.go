package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrometheusExposesObservations(t *testing.T) {
	p := NewPrometheus()
	p.ObserveHTTPRequest(http.MethodPost, "/api/summarize", http.StatusOK, 120*time.Millisecond)
	p.ObserveGeneration("summarize", 2*time.Second, nil)
	p.ObserveGeneration("regenerate", time.Second, errors.New("boom"))
	p.ObserveTokens("summarize", TokenUsage{PromptTokens: 40, CompletionTokens: 12, TotalTokens: 52})
	p.ObserveTruncation("short")
	p.ObserveExport("pdf", true)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	require.Contains(t, text, `summarizer_http_requests_total{method="POST",route="/api/summarize",status="200"} 1`)
	require.Contains(t, text, `summarizer_generations_total{operation="regenerate",result="error"} 1`)
	require.Contains(t, text, `summarizer_tokens_total{kind="prompt",operation="summarize"} 40`)
	require.Contains(t, text, `summarizer_truncations_total{length="short"} 1`)
	require.Contains(t, text, `summarizer_exports_total{cache="hit",format="pdf"} 1`)
}

func TestTokenUsageIsZero(t *testing.T) {
	require.True(t, TokenUsage{}.IsZero())
	require.False(t, TokenUsage{TotalTokens: 1}.IsZero())
}
