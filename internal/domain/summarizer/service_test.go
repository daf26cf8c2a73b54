package summarizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/summarizer-backend/internal/infra/llm/ollama"
	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
	"github.com/yanqian/summarizer-backend/pkg/metrics"
)

func TestSummarizeCreatesRecord(t *testing.T) {
	client := &stubChatClient{content: "Go is a compiled language. It has goroutines. It ships fast binaries."}
	repo := newStubRepo()
	svc := newTestService(client, repo)

	record, err := svc.Summarize(context.Background(), 7, Request{
		Text:        "Go is an open source programming language.",
		Length:      "short",
		Tonality:    "formal",
		Temperature: Number(0.9),
		TopP:        Number(0.2),
		Focus:       "speed",
	})
	require.NoError(t, err)
	require.NotZero(t, record.ID)
	require.True(t, record.OwnedBy(7))
	require.Equal(t, "Go is a compiled language. It has goroutines.", record.SummaryText)
	require.Equal(t, LengthShort, record.Length)
	require.InDelta(t, 0.75, record.Temperature, 1e-9)
	require.InDelta(t, 0.95, record.TopP, 1e-9)
	require.Equal(t, "test-model", record.ModelUsed)
	require.False(t, record.IsFavorite)
	require.Equal(t, record.CreatedAt, record.ModifiedAt)

	req := client.lastRequest
	require.Equal(t, "test-model", req.Model)
	require.Len(t, req.Messages, 2)
	require.Equal(t, "system", req.Messages[0].Role)
	require.Contains(t, req.Messages[0].Content, "STRICTLY 1-2 SENTENCES")
	require.Equal(t, "TEXT:\nGo is an open source programming language.", req.Messages[1].Content)
	require.Equal(t, 4096, req.Options.NumCtx)
	require.Equal(t, 256, req.Options.NumPredict)
	require.InDelta(t, 1.15, req.Options.RepeatPenalty, 1e-9)

	fetched, err := svc.Get(context.Background(), 7, record.ID)
	require.NoError(t, err)
	require.Equal(t, record, fetched)
}

func TestSummarizeRejectsLongTextWithoutCallingModel(t *testing.T) {
	client := &stubChatClient{content: "unused"}
	repo := newStubRepo()
	svc := newTestService(client, repo)

	_, err := svc.Summarize(context.Background(), 1, Request{Text: strings.Repeat("a", MaxTextRunes+1)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, client.calls)
	require.Empty(t, repo.records)
}

func TestSummarizeModelFailures(t *testing.T) {
	cases := []struct {
		name     string
		client   *stubChatClient
		wantCode string
		wantMsg  string
	}{
		{name: "transport", client: &stubChatClient{err: errors.New("connection refused")}, wantCode: apperrors.CodeLLM, wantMsg: "model request failed: connection refused"},
		{name: "insufficient", client: &stubChatClient{content: "too short"}, wantCode: apperrors.CodeInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubRepo()
			svc := newTestService(tc.client, repo)

			_, err := svc.Summarize(context.Background(), 1, Request{Text: "Some input text."})
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, tc.wantCode))
			require.Empty(t, repo.records)
			if tc.wantMsg != "" {
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				require.Equal(t, tc.wantMsg, appErr.Message)
			}
		})
	}
}

func TestRegenerateUsesStoredOriginal(t *testing.T) {
	client := &stubChatClient{content: "First generated sentence here. Second one too."}
	repo := newStubRepo()
	svc := newTestService(client, repo)

	created, err := svc.Summarize(context.Background(), 3, Request{Text: "the stored original text"})
	require.NoError(t, err)

	svc.now = func() time.Time { return created.CreatedAt.Add(time.Minute) }
	client.content = "A regenerated summary that is long enough."
	updated, err := svc.Regenerate(context.Background(), 3, created.ID, Request{
		Text:     "ignored body text",
		Length:   "long",
		Tonality: "casual",
		Focus:    "people",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.OriginalText, updated.OriginalText)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.True(t, updated.ModifiedAt.After(created.ModifiedAt))
	require.Equal(t, "A regenerated summary that is long enough.", updated.SummaryText)
	require.Equal(t, LengthLong, updated.Length)
	require.Equal(t, "casual", updated.Tonality)
	require.Equal(t, "people", updated.Focus)

	req := client.lastRequest
	require.Equal(t, "Summarize this text:\nthe stored original text", req.Messages[1].Content)
	require.Contains(t, req.Messages[0].Content, "Source length: 4 words")
	require.Zero(t, req.Options.NumPredict)
	require.Zero(t, req.Options.RepeatPenalty)
}

func TestRegenerateValidatesBodyBeforeLookup(t *testing.T) {
	client := &stubChatClient{content: "unused"}
	svc := newTestService(client, newStubRepo())

	_, err := svc.Regenerate(context.Background(), 1, 99, Request{Focus: strings.Repeat("x", MaxFocusRunes+1)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Regenerate(context.Background(), 1, 99, Request{Text: "ok"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	require.Zero(t, client.calls)
}

func TestOwnershipScoping(t *testing.T) {
	client := &stubChatClient{content: "Owned summary text for the test."}
	svc := newTestService(client, newStubRepo())

	created, err := svc.Summarize(context.Background(), 1, Request{Text: "private"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, created.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	_, err = svc.ToggleFavorite(context.Background(), 2, created.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	text := "hijack"
	_, err = svc.UpdateText(context.Background(), 2, created.ID, UpdateRequest{SummaryText: &text})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdateText(t *testing.T) {
	client := &stubChatClient{content: "Generated summary with enough words."}
	svc := newTestService(client, newStubRepo())

	created, err := svc.Summarize(context.Background(), 1, Request{Text: "input"})
	require.NoError(t, err)

	edited := "Edited by hand."
	updated, err := svc.UpdateText(context.Background(), 1, created.ID, UpdateRequest{SummaryText: &edited})
	require.NoError(t, err)
	require.Equal(t, edited, updated.SummaryText)

	kept, err := svc.UpdateText(context.Background(), 1, created.ID, UpdateRequest{})
	require.NoError(t, err)
	require.Equal(t, edited, kept.SummaryText)
}

func TestToggleFavoriteTwiceRestoresFlag(t *testing.T) {
	client := &stubChatClient{content: "Generated summary with enough words."}
	svc := newTestService(client, newStubRepo())

	created, err := svc.Summarize(context.Background(), 1, Request{Text: "input"})
	require.NoError(t, err)

	first, err := svc.ToggleFavorite(context.Background(), 1, created.ID)
	require.NoError(t, err)
	require.True(t, first.IsFavorite)

	second, err := svc.ToggleFavorite(context.Background(), 1, created.ID)
	require.NoError(t, err)
	require.False(t, second.IsFavorite)
}

func TestListFavoritesNewestFirst(t *testing.T) {
	client := &stubChatClient{content: "Generated summary with enough words."}
	svc := newTestService(client, newStubRepo())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		record, err := svc.Summarize(context.Background(), 1, Request{Text: "input"})
		require.NoError(t, err)
		ids = append(ids, record.ID)
	}
	_, err := svc.ToggleFavorite(context.Background(), 1, ids[0])
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(context.Background(), 1, ids[2])
	require.NoError(t, err)

	fav := true
	favorites, err := svc.List(context.Background(), 1, ListFilter{Favorite: &fav})
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	require.Equal(t, ids[2], favorites[0].ID)
	require.Equal(t, ids[0], favorites[1].ID)

	all, err := svc.List(context.Background(), 1, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	none, err := svc.List(context.Background(), 42, ListFilter{})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestSummarizeRecordsMetrics(t *testing.T) {
	client := &stubChatClient{
		content: "One sentence. Two sentence. Three sentence.",
		usage:   [2]int{120, 30},
	}
	recorder := &stubRecorder{}
	svc := newService(testConfig(), client, newStubRepo(), nil, recorder, newTestLogger())

	_, err := svc.Summarize(context.Background(), 1, Request{Text: "input", Length: "short"})
	require.NoError(t, err)
	require.Equal(t, []string{"summarize"}, recorder.generations)
	require.Equal(t, []string{"short"}, recorder.truncations)
	require.Equal(t, metrics.TokenUsage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150}, recorder.usage)
}

func TestTruncationLabelIsBounded(t *testing.T) {
	client := &stubChatClient{
		content: "First sentence here. Second sentence here. Third sentence here. Fourth sentence here. " +
			"Fifth sentence here. Sixth sentence here. Seventh sentence here.",
	}
	recorder := &stubRecorder{}
	svc := newService(testConfig(), client, newStubRepo(), nil, recorder, newTestLogger())

	for _, length := range []LengthClass{"custom-1", "custom-2", "long", "medium"} {
		_, err := svc.Summarize(context.Background(), 1, Request{Text: "input", Length: string(length)})
		require.NoError(t, err)
	}
	require.Equal(t, []string{"other", "other", "medium"}, recorder.truncations)
}

func TestLengthClassMetricLabel(t *testing.T) {
	cases := map[LengthClass]string{
		LengthShort:  "short",
		LengthMedium: "medium",
		LengthLong:   "long",
		"":           "other",
		"SHORT":      "other",
		"huge":       "other",
	}
	for in, want := range cases {
		require.Equal(t, want, in.MetricLabel(), string(in))
	}
}

func TestContextOverflowDoesNotBlockGeneration(t *testing.T) {
	client := &stubChatClient{content: "Generated summary with enough words."}
	svc := newService(testConfig(), client, newStubRepo(), fixedCounter(10000), nil, newTestLogger())

	_, err := svc.Summarize(context.Background(), 1, Request{Text: "input"})
	require.NoError(t, err)
	require.Equal(t, 1, client.calls)
}

func newTestService(client ChatClient, repo Repository) *service {
	return newService(testConfig(), client, repo, fixedCounter(10), nil, newTestLogger())
}

func testConfig() Config {
	return Config{
		Model:           "test-model",
		ContextWindow:   4096,
		MaxOutputTokens: 256,
		RepeatPenalty:   1.15,
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedCounter int

func (c fixedCounter) Count(string) int { return int(c) }

type stubChatClient struct {
	content     string
	usage       [2]int
	err         error
	calls       int
	lastRequest ollama.ChatRequest
}

func (s *stubChatClient) Chat(_ context.Context, req ollama.ChatRequest) (ollama.ChatResponse, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return ollama.ChatResponse{}, s.err
	}
	return ollama.ChatResponse{
		Model:           req.Model,
		Message:         ollama.Message{Role: "assistant", Content: s.content},
		Done:            true,
		PromptEvalCount: s.usage[0],
		EvalCount:       s.usage[1],
	}, nil
}

type stubRecorder struct {
	metrics.Noop
	generations []string
	truncations []string
	usage       metrics.TokenUsage
}

func (r *stubRecorder) ObserveGeneration(operation string, _ time.Duration, err error) {
	if err == nil {
		r.generations = append(r.generations, operation)
	}
}

func (r *stubRecorder) ObserveTokens(_ string, usage metrics.TokenUsage) {
	r.usage = usage
}

func (r *stubRecorder) ObserveTruncation(length string) {
	r.truncations = append(r.truncations, length)
}

type stubRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]Summary
}

func newStubRepo() *stubRepo {
	return &stubRepo{records: make(map[int64]Summary)}
}

func (r *stubRepo) Create(_ context.Context, summary Summary) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	summary.ID = r.nextID
	r.records[summary.ID] = summary
	return summary, nil
}

func (r *stubRepo) Get(_ context.Context, id, userID int64) (Summary, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok || !record.OwnedBy(userID) {
		return Summary{}, false, nil
	}
	return record, true, nil
}

func (r *stubRepo) Save(_ context.Context, summary Summary) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[summary.ID]; !ok {
		return Summary{}, ErrSummaryNotFound
	}
	r.records[summary.ID] = summary
	return summary, nil
}

func (r *stubRepo) List(_ context.Context, userID int64, filter ListFilter) ([]Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Summary
	for _, record := range r.records {
		if !record.OwnedBy(userID) {
			continue
		}
		if filter.Favorite != nil && record.IsFavorite != *filter.Favorite {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
