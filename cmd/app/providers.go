package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/summarizer-backend/internal/domain/auth"
	"github.com/yanqian/summarizer-backend/internal/domain/export"
	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
	"github.com/yanqian/summarizer-backend/internal/infra/config"
	"github.com/yanqian/summarizer-backend/internal/infra/db"
	"github.com/yanqian/summarizer-backend/internal/infra/document"
	"github.com/yanqian/summarizer-backend/internal/infra/exportarchive"
	"github.com/yanqian/summarizer-backend/internal/infra/exportcache"
	"github.com/yanqian/summarizer-backend/internal/infra/llm/ollama"
	"github.com/yanqian/summarizer-backend/internal/infra/summaryrepo"
	"github.com/yanqian/summarizer-backend/internal/infra/tokenizer"
	"github.com/yanqian/summarizer-backend/internal/infra/userrepo"
)

func provideSummaryConfig(cfg *config.Config) summarizer.Config {
	return summarizer.Config{
		Model:           cfg.LLM.Model,
		ContextWindow:   cfg.LLM.ContextWindow,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		RepeatPenalty:   cfg.LLM.RepeatPenalty,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Google: auth.GoogleConfig{
			ClientID:             cfg.Auth.Google.ClientID,
			ClientSecret:         cfg.Auth.Google.ClientSecret,
			RedirectURL:          cfg.Auth.Google.RedirectURL,
			TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
			PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
		},
	}
}

func provideExportConfig(cfg *config.Config) export.Config {
	return export.Config{CacheTTL: cfg.Export.CacheTTL}
}

func provideOllamaClient(cfg *config.Config) *ollama.Client {
	return ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) *tokenizer.Counter {
	return tokenizer.New(cfg.LLM.TokenEncoding, logger)
}

func providePDFRenderer(cfg *config.Config, logger *slog.Logger) *document.ChromePDFRenderer {
	return document.NewChromePDFRenderer(cfg.Export.ChromePath, cfg.Export.RenderTimeout, logger)
}

// storage bundles the repositories that share one database handle.
type storage struct {
	users     auth.Repository
	summaries summarizer.Repository
}

func provideStorage(cfg *config.Config, logger *slog.Logger) (*storage, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("postgres storage enabled")
		return postgresStorage(pool), pool.Close, nil
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.MigrateSQLite(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		logger.Info("sqlite storage enabled", "path", cfg.Storage.SQLite.Path)
		return sqliteStorage(conn), func() { _ = conn.Close() }, nil
	case config.DriverMemory, "":
		logger.Info("storage driver not set, using memory repositories")
		return &storage{
			users:     userrepo.NewMemoryRepository(),
			summaries: summaryrepo.NewMemoryRepository(),
		}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func postgresStorage(pool *pgxpool.Pool) *storage {
	return &storage{
		users:     userrepo.NewPostgresRepository(pool),
		summaries: summaryrepo.NewPostgresRepository(pool),
	}
}

func sqliteStorage(conn *sql.DB) *storage {
	return &storage{
		users:     userrepo.NewSQLiteRepository(conn),
		summaries: summaryrepo.NewSQLiteRepository(conn),
	}
}

func provideUserRepository(s *storage) auth.Repository {
	return s.users
}

func provideSummaryRepository(s *storage) summarizer.Repository {
	return s.summaries
}

func provideExportCache(cfg *config.Config, logger *slog.Logger) (export.Cache, func()) {
	if !cfg.Cache.Enabled {
		return exportcache.NewMemoryCache(), func() {}
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return exportcache.NewMemoryCache(), func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return exportcache.NewMemoryCache(), func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return exportcache.NewMemoryCache(), func() {}
	}
	logger.Info("export valkey cache enabled", "addr", cfg.Cache.Addr)
	return exportcache.NewValkeyCache(client, cfg.Cache.Prefix), client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Cache.Addr, "://") {
		return valkey.ParseURL(cfg.Cache.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Cache.Addr}}, nil
}

// provideExportArchive returns nil when archiving is off; the export service
// skips the copy in that case.
func provideExportArchive(cfg *config.Config, logger *slog.Logger) export.Archive {
	if !cfg.Archive.Enabled {
		return nil
	}
	archive, err := exportarchive.NewR2Archive(
		cfg.Archive.Endpoint,
		cfg.Archive.AccessKey,
		cfg.Archive.SecretKey,
		cfg.Archive.Bucket,
		cfg.Archive.Region,
		cfg.Archive.Prefix,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize export archive, archiving disabled", "error", err)
		return nil
	}
	logger.Info("export archive enabled", "bucket", cfg.Archive.Bucket)
	return archive
}
