package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/summarizer-backend/internal/domain/auth"
	apperrors "github.com/yanqian/summarizer-backend/pkg/errors"
)

const authClaimsKey = "auth_claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// currentUser returns the authenticated user id, aborting with 401 when the
// route was reached without claims.
func currentUser(c *gin.Context) (int64, bool) {
	claims, ok := getClaims(c)
	if !ok || claims.UserID == 0 {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, notAuthenticatedMessage, nil))
		return 0, false
	}
	return claims.UserID, true
}
