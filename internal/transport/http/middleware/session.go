package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docuchat/internal/pkg/sessiontoken"
	"docuchat/internal/transport/http/response"
)

const (
	ContextSessionIDKey = "session_id"

	cookieName = "docuchat_session"
)

// Session attaches a session identifier to every request. An existing valid
// cookie is reused; otherwise a fresh session id is minted and set. This is
// session scoping only, not authentication.
func Session(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string
		if cookie, err := c.Cookie(cookieName); err == nil {
			if parsed, parseErr := sessiontoken.Parse(secret, cookie); parseErr == nil {
				sessionID = parsed
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			token, err := sessiontoken.Generate(secret, sessionID, ttl)
			if err != nil {
				response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "issue session failed")
				c.Abort()
				return
			}
			c.SetCookie(cookieName, token, int(ttl.Seconds()), "/", "", false, true)
		}

		c.Set(ContextSessionIDKey, sessionID)
		c.Next()
	}
}

// SessionIDFromContext returns the session id set by the Session middleware.
func SessionIDFromContext(c *gin.Context) (string, bool) {
	raw, exists := c.Get(ContextSessionIDKey)
	if !exists {
		return "", false
	}
	sessionID, ok := raw.(string)
	return sessionID, ok && sessionID != ""
}
