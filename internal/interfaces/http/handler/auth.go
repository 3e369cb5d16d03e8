package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	identityapp "github.com/vivo/salesops-backend/internal/application/identity"
	"github.com/vivo/salesops-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles login, logout and session introspection
type AuthHandler struct {
	BaseHandler
	sessions     *identityapp.SessionService
	cookieMaxAge int
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. sessionTTL controls the
// lifetime of the browser cookie; secureCookie should be true whenever
// the API is served over HTTPS.
func NewAuthHandler(sessions *identityapp.SessionService, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		cookieMaxAge: int(sessionTTL.Seconds()),
		secureCookie: secureCookie,
	}
}

// LoginRequest represents a login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=1,max=200"`
}

// Login authenticates a user and issues a session token. Browser clients
// also receive the token as an HTTP-only cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, session.Token, h.cookieMaxAge, "/", "", h.secureCookie, true)
	h.Success(c, session)
}

// Logout revokes the presented session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
		h.InternalError(c, "Failed to end session")
		return
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookie, true)
	h.NoContent(c)
}

// Me returns the caller's resolved session.
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	h.Success(c, session)
}
