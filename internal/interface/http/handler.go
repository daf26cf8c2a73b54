package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/summarizer-backend/internal/domain/auth"
	"github.com/yanqian/summarizer-backend/internal/domain/export"
	"github.com/yanqian/summarizer-backend/internal/domain/summarizer"
	"github.com/yanqian/summarizer-backend/internal/infra/config"
	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	summarizerSvc     summarizer.Service
	exportSvc         export.Service
	authSvc           auth.Service
	postLoginRedirect string
	logger            *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, summarySvc summarizer.Service, exportSvc export.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		summarizerSvc:     summarySvc,
		exportSvc:         exportSvc,
		authSvc:           authSvc,
		postLoginRedirect: strings.TrimSpace(cfg.Auth.Google.PostLoginRedirectURL),
		logger:            logger.With("component", "http.handler"),
	}
}

// Summarize creates a summary for the caller.
func (h *Handler) Summarize(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req summarizer.Request
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.summarizerSvc.Summarize(c.Request.Context(), userID, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, record)
}

// Regenerate re-runs generation for an existing summary.
func (h *Handler) Regenerate(c *gin.Context) {
	userID, id, ok := h.ownedRecord(c)
	if !ok {
		return
	}
	var req summarizer.Request
	if !bindOptionalJSON(c, &req) {
		return
	}
	record, err := h.summarizerSvc.Regenerate(c.Request.Context(), userID, id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateText overwrites the generated text.
func (h *Handler) UpdateText(c *gin.Context) {
	userID, id, ok := h.ownedRecord(c)
	if !ok {
		return
	}
	var req summarizer.UpdateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	record, err := h.summarizerSvc.UpdateText(c.Request.Context(), userID, id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, record)
}

// ToggleFavorite flips the favorite flag.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	userID, id, ok := h.ownedRecord(c)
	if !ok {
		return
	}
	record, err := h.summarizerSvc.ToggleFavorite(c.Request.Context(), userID, id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, record)
}

// List returns the caller's summaries, newest first.
func (h *Handler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.summarizerSvc.List(c.Request.Context(), userID, parseFavoriteFilter(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, records)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ownedRecord(c *gin.Context) (int64, int64, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeNotFound, "Summary not found", err))
		return 0, 0, false
	}
	return userID, id, true
}

// parseFavoriteFilter treats a case-insensitive "true" as true and any other
// supplied value as false. An absent parameter disables the filter.
func parseFavoriteFilter(c *gin.Context) summarizer.ListFilter {
	raw, present := c.GetQuery("is_favorite")
	if !present {
		return summarizer.ListFilter{}
	}
	favorite := strings.EqualFold(strings.TrimSpace(raw), "true")
	return summarizer.ListFilter{Favorite: &favorite}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "invalid request body", err))
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body and leaves dst untouched.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "invalid request body", err))
		return false
	}
	return true
}
