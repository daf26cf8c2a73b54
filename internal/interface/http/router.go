package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/summarizer-backend/internal/domain/auth"
	"github.com/yanqian/summarizer-backend/internal/infra/config"
	"github.com/yanqian/summarizer-backend/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, prom *metrics.Prometheus, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger.With("component", "http.access")),
		metricsMiddleware(prom),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger.With("component", "http.error")),
	)

	router.GET("/healthz", handler.Healthz)
	router.GET("/metrics", gin.WrapH(prom.Handler()))

	api := router.Group("/api")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, logger))

	public := api.Group("/auth")
	{
		handle(public, http.MethodPost, "/register", handler.Register)
		handle(public, http.MethodPost, "/login", handler.Login)
		handle(public, http.MethodPost, "/refresh", handler.Refresh)
		handle(public, http.MethodGet, "/google/login", handler.GoogleLogin)
		handle(public, http.MethodGet, "/google/callback", handler.GoogleCallback)
	}

	protected := api.Group("")
	protected.Use(authMiddleware(authSvc))
	{
		handle(protected, http.MethodGet, "/auth/me", handler.Me)
		handle(protected, http.MethodPost, "/auth/logout", handler.Logout)
		handle(protected, http.MethodPost, "/summarize", handler.Summarize)
		handle(protected, http.MethodGet, "/summarize/list", handler.List)
		handle(protected, http.MethodPost, "/summarize/:id/regenerate", handler.Regenerate)
		handle(protected, http.MethodPut, "/summarize/:id/update", handler.UpdateText)
		handle(protected, http.MethodPost, "/summarize/:id/favorite", handler.ToggleFavorite)
		handle(protected, http.MethodGet, "/summarize/:id/export", handler.Export)
		handle(protected, http.MethodGet, "/export-formats", handler.ExportFormats)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

// handle registers path with and without a trailing slash.
func handle(group *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	group.Handle(method, path, handlers...)
	group.Handle(method, strings.TrimSuffix(path, "/")+"/", handlers...)
}
