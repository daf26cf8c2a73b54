//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/summarizer-backend/internal/bootstrap"
	"github.com/yanqian/summarizer-backend/internal/domain/auth"
	"github.com/yanqian/summarizer-backend/internal/domain/export"
	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
	"github.com/yanqian/summarizer-backend/internal/infra/config"
	"github.com/yanqian/summarizer-backend/internal/infra/document"
	"github.com/yanqian/summarizer-backend/internal/infra/llm/ollama"
	"github.com/yanqian/summarizer-backend/internal/infra/tokenizer"
	httpiface "github.com/yanqian/summarizer-backend/internal/interface/http"
	"github.com/yanqian/summarizer-backend/pkg/logger"
	"github.com/yanqian/summarizer-backend/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewPrometheus,
		provideSummaryConfig,
		provideAuthConfig,
		provideExportConfig,
		provideOllamaClient,
		provideTokenCounter,
		providePDFRenderer,
		document.NewDOCXRenderer,
		provideStorage,
		provideUserRepository,
		provideSummaryRepository,
		provideExportCache,
		provideExportArchive,
		summarizer.NewService,
		export.NewService,
		auth.NewService,
		wire.Bind(new(summarizer.ChatClient), new(*ollama.Client)),
		wire.Bind(new(summarizer.TokenCounter), new(*tokenizer.Counter)),
		wire.Bind(new(metrics.Recorder), new(*metrics.Prometheus)),
		wire.Bind(new(export.SummaryReader), new(summarizer.Service)),
		wire.Bind(new(export.PDFRenderer), new(*document.ChromePDFRenderer)),
		wire.Bind(new(export.DOCXRenderer), new(*document.DOCXRenderer)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
