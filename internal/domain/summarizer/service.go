package summarizer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/summarizer-backend/internal/infra/llm/ollama"
	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
	"github.com/yanqian/summarizer-backend/pkg/metrics"
	"github.com/yanqian/summarizer-backend/pkg/util"
)

const (
	operationSummarize  = "summarize"
	operationRegenerate = "regenerate"
)

// Service exposes the summarization workflows. Every operation is scoped to
// the calling user.
type Service interface {
	Summarize(ctx context.Context, userID int64, req Request) (Summary, error)
	Regenerate(ctx context.Context, userID, id int64, req Request) (Summary, error)
	UpdateText(ctx context.Context, userID, id int64, req UpdateRequest) (Summary, error)
	ToggleFavorite(ctx context.Context, userID, id int64) (Summary, error)
	List(ctx context.Context, userID int64, filter ListFilter) ([]Summary, error)
	Get(ctx context.Context, userID, id int64) (Summary, error)
}

// ChatClient is the model service adapter.
type ChatClient interface {
	Chat(ctx context.Context, req ollama.ChatRequest) (ollama.ChatResponse, error)
}

// TokenCounter estimates prompt size before the model call.
type TokenCounter interface {
	Count(text string) int
}

type service struct {
	cfg      Config
	client   ChatClient
	repo     Repository
	counter  TokenCounter
	recorder metrics.Recorder
	logger   *slog.Logger
	now      util.Clock
}

// NewService is a wire provider for the summarizer domain.
func NewService(cfg Config, client ChatClient, repo Repository, counter TokenCounter, recorder metrics.Recorder, logger *slog.Logger) Service {
	return newService(cfg, client, repo, counter, recorder, logger)
}

func newService(cfg Config, client ChatClient, repo Repository, counter TokenCounter, recorder metrics.Recorder, logger *slog.Logger) *service {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &service{
		cfg:      cfg,
		client:   client,
		repo:     repo,
		counter:  counter,
		recorder: recorder,
		logger:   logger.With("component", "summarizer.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Summarize(ctx context.Context, userID int64, req Request) (Summary, error) {
	text, params, err := Normalize(req)
	if err != nil {
		return Summary{}, err
	}

	content, err := s.generate(ctx, operationSummarize, params, []ollama.Message{
		{Role: "system", Content: BuildSummarizePrompt(params)},
		{Role: "user", Content: summarizeUserMessage(text)},
	}, ollama.Options{
		Temperature:   params.Temperature,
		TopP:          params.TopP,
		NumCtx:        s.cfg.ContextWindow,
		NumPredict:    s.cfg.MaxOutputTokens,
		RepeatPenalty: s.cfg.RepeatPenalty,
	})
	if err != nil {
		return Summary{}, err
	}

	now := s.now()
	owner := userID
	record, err := s.repo.Create(ctx, Summary{
		UserID:       &owner,
		OriginalText: text,
		SummaryText:  content,
		Length:       params.Length,
		Tonality:     params.Tonality,
		Temperature:  params.Temperature,
		TopP:         params.TopP,
		Focus:        params.Focus,
		CreatedAt:    now,
		ModifiedAt:   now,
		ModelUsed:    s.cfg.Model,
	})
	if err != nil {
		return Summary{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save summary", err)
	}
	s.logger.Info("summary created", "summary_id", record.ID, "user_id", userID, "length", params.Length)
	return record, nil
}

// Regenerate always works from the stored original text; the text in the
// request body is only validated.
func (s *service) Regenerate(ctx context.Context, userID, id int64, req Request) (Summary, error) {
	_, params, err := Normalize(req)
	if err != nil {
		return Summary{}, err
	}
	record, err := s.load(ctx, userID, id)
	if err != nil {
		return Summary{}, err
	}

	content, err := s.generate(ctx, operationRegenerate, params, []ollama.Message{
		{Role: "system", Content: BuildRegeneratePrompt(params, wordCount(record.OriginalText))},
		{Role: "user", Content: regenerateUserMessage(record.OriginalText)},
	}, ollama.Options{
		Temperature: params.Temperature,
		TopP:        params.TopP,
		NumCtx:      s.cfg.ContextWindow,
	})
	if err != nil {
		return Summary{}, err
	}

	record.SummaryText = content
	record.Length = params.Length
	record.Tonality = params.Tonality
	record.Temperature = params.Temperature
	record.TopP = params.TopP
	record.Focus = params.Focus
	record.ModifiedAt = s.now()
	saved, err := s.save(ctx, record)
	if err != nil {
		return Summary{}, err
	}
	s.logger.Info("summary regenerated", "summary_id", id, "user_id", userID, "length", params.Length)
	return saved, nil
}

func (s *service) UpdateText(ctx context.Context, userID, id int64, req UpdateRequest) (Summary, error) {
	record, err := s.load(ctx, userID, id)
	if err != nil {
		return Summary{}, err
	}
	if req.SummaryText != nil {
		record.SummaryText = *req.SummaryText
	}
	record.ModifiedAt = s.now()
	return s.save(ctx, record)
}

func (s *service) ToggleFavorite(ctx context.Context, userID, id int64) (Summary, error) {
	record, err := s.load(ctx, userID, id)
	if err != nil {
		return Summary{}, err
	}
	record.IsFavorite = !record.IsFavorite
	record.ModifiedAt = s.now()
	return s.save(ctx, record)
}

func (s *service) List(ctx context.Context, userID int64, filter ListFilter) ([]Summary, error) {
	items, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list summaries", err)
	}
	if items == nil {
		items = []Summary{}
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, userID, id int64) (Summary, error) {
	return s.load(ctx, userID, id)
}

func (s *service) generate(ctx context.Context, operation string, params Params, messages []ollama.Message, options ollama.Options) (string, error) {
	s.warnOnContextOverflow(operation, messages)

	start := time.Now()
	resp, err := s.client.Chat(ctx, ollama.ChatRequest{
		Model:    s.cfg.Model,
		Messages: messages,
		Options:  options,
	})
	if err != nil {
		s.recorder.ObserveGeneration(operation, time.Since(start), err)
		return "", apperrors.Wrap(apperrors.CodeLLM, "model request failed: "+err.Error(), err)
	}
	s.recorder.ObserveTokens(operation, resp.Usage())
	s.logger.Debug("model response received", "operation", operation, "content", resp.Message.Content)

	content, truncated, err := PostProcess(resp.Message.Content, params.Length)
	s.recorder.ObserveGeneration(operation, time.Since(start), err)
	if err != nil {
		return "", err
	}
	if truncated {
		s.recorder.ObserveTruncation(params.Length.MetricLabel())
	}
	return content, nil
}

func (s *service) warnOnContextOverflow(operation string, messages []ollama.Message) {
	if s.counter == nil || s.cfg.ContextWindow <= 0 {
		return
	}
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	if tokens := s.counter.Count(strings.Join(parts, "\n")); tokens > s.cfg.ContextWindow {
		s.logger.Warn("prompt exceeds model context window", "operation", operation, "estimated_tokens", tokens, "context_window", s.cfg.ContextWindow)
	}
}

func (s *service) load(ctx context.Context, userID, id int64) (Summary, error) {
	record, found, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return Summary{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load summary", err)
	}
	if !found {
		return Summary{}, apperrors.Wrap(apperrors.CodeNotFound, "summary not found", nil)
	}
	return record, nil
}

func (s *service) save(ctx context.Context, record Summary) (Summary, error) {
	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		if errors.Is(err, ErrSummaryNotFound) {
			return Summary{}, apperrors.Wrap(apperrors.CodeNotFound, "summary not found", nil)
		}
		return Summary{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save summary", err)
	}
	return saved, nil
}
