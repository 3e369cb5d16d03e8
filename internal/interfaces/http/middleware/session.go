package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vivo/salesops-backend/internal/domain/identity"
	"github.com/vivo/salesops-backend/internal/infrastructure/logger"
	"github.com/vivo/salesops-backend/internal/interfaces/http/dto"
)

// SessionKey is the gin context key holding the resolved session
const SessionKey = "session"

// SessionCookieName is the cookie browser clients carry the token in
const SessionCookieName = "vivo_session"

// SessionResolver resolves a presented token into a session.
type SessionResolver interface {
	CurrentUser(ctx context.Context, tokenString string) (*identity.Session, error)
}

// SessionAuth gates a route group on a valid session. Requests without
// one are answered 401 before any ERP call is issued.
func SessionAuth(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)

		session, err := sessions.CurrentUser(c.Request.Context(), token)
		if err != nil {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", requestID))
			return
		}

		// Downstream log lines carry the authenticated username.
		ctx, _ := logger.WithUsername(c.Request.Context(),
			logger.FromContext(c.Request.Context()), session.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Set(SessionKey, session)
		c.Next()
	}
}

// ExtractToken pulls the session token from the Authorization header or,
// for browser clients, the session cookie.
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// GetSession retrieves the resolved session from gin context
func GetSession(c *gin.Context) *identity.Session {
	if value, exists := c.Get(SessionKey); exists {
		if session, ok := value.(*identity.Session); ok {
			return session
		}
	}
	return nil
}
