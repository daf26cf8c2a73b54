package http

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/summarizer-backend/internal/domain/auth"
	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
)

// Register creates a password account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login exchanges credentials for an access/refresh pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh rotates the token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.authSvc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Me returns the caller's profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.authSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// Logout revokes linked provider tokens. Access tokens simply expire.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), userID); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GoogleLogin starts the PKCE authorization code flow.
func (h *Handler) GoogleLogin(c *gin.Context) {
	if !h.authSvc.GoogleEnabled() {
		abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeAuthNotConfigured, "google sign-in is not configured", nil))
		return
	}
	state, verifier, challenge, err := auth.NewOAuthState()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, apperrors.CodeAuth, "failed to start google sign-in", err))
		return
	}
	target, err := h.authSvc.GoogleAuthURL(c.Request.Context(), state, challenge)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	setOAuthStateCookie(c, state, verifier)
	c.Redirect(http.StatusFound, target)
}

// GoogleCallback completes the flow and issues local tokens.
func (h *Handler) GoogleCallback(c *gin.Context) {
	if !h.authSvc.GoogleEnabled() {
		abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeAuthNotConfigured, "google sign-in is not configured", nil))
		return
	}
	stored, ok := readOAuthStateCookie(c)
	clearOAuthStateCookie(c)
	state := c.Query("state")
	if !ok || state == "" || subtle.ConstantTimeCompare([]byte(stored.State), []byte(state)) != 1 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "invalid oauth state", nil))
		return
	}
	if reason := c.Query("error"); reason != "" {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeInvalidCredentials, "google sign-in was cancelled", nil))
		return
	}
	pair, err := h.authSvc.GoogleCallback(c.Request.Context(), c.Query("code"), stored.CodeVerifier)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if h.postLoginRedirect == "" {
		c.JSON(http.StatusOK, pair)
		return
	}
	fragment := url.Values{}
	fragment.Set("access", pair.Access)
	fragment.Set("refresh", pair.Refresh)
	c.Redirect(http.StatusFound, h.postLoginRedirect+"#"+fragment.Encode())
}
