package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookieName = "summarizer_oauth_state"
	oauthStateCookiePath = "/api/auth/google"
	oauthStateMaxAge     = 300
)

// oauthFlow is the PKCE material carried between the login redirect and the
// provider callback.
type oauthFlow struct {
	State        string `json:"s"`
	CodeVerifier string `json:"v"`
}

func setOAuthStateCookie(c *gin.Context, state, codeVerifier string) {
	data, _ := json.Marshal(oauthFlow{State: state, CodeVerifier: codeVerifier})
	writeOAuthCookie(c, base64.RawURLEncoding.EncodeToString(data), oauthStateMaxAge)
}

func clearOAuthStateCookie(c *gin.Context) {
	writeOAuthCookie(c, "", -1)
}

func writeOAuthCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    value,
		Path:     oauthStateCookiePath,
		MaxAge:   maxAge,
		Secure:   requestIsHTTPS(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func readOAuthStateCookie(c *gin.Context) (oauthFlow, bool) {
	value, err := c.Cookie(oauthStateCookieName)
	if err != nil || value == "" {
		return oauthFlow{}, false
	}
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return oauthFlow{}, false
	}
	var flow oauthFlow
	if err := json.Unmarshal(data, &flow); err != nil {
		return oauthFlow{}, false
	}
	if flow.State == "" || flow.CodeVerifier == "" {
		return oauthFlow{}, false
	}
	return flow, true
}

// requestIsHTTPS honours TLS termination at a proxy.
func requestIsHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
