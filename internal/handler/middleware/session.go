package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const ctxSessionIDKey = "session_id"

var errSessionTokenRequired = errs.New("session token required")

type SessionMiddleware struct {
	sessions *session.Service
}

func NewSessionMiddleware(sessions *session.Service) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithCode(c, http.StatusUnauthorized, "SESSION_REQUIRED", errSessionTokenRequired, "Session token required", nil)
			return
		}

		claims, err := m.sessions.Validate(token)
		if err != nil {
			slog.Warn("Session token validation failed", "error", err.Error())
			code := "SESSION_INVALID"
			if errs.Is(err, session.ErrExpiredToken) {
				code = "SESSION_EXPIRED"
			}
			httperr.AbortWithCode(c, http.StatusUnauthorized, code, err, "Invalid or expired session token", nil)
			return
		}

		c.Set(ctxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

// OptionalSession attaches the session when a valid token is present and
// never aborts.
func (m *SessionMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := m.sessions.Validate(token); err == nil {
				c.Set(ctxSessionIDKey, claims.SessionID)
			}
		}
		c.Next()
	}
}

func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxSessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}
