package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/service"
)

// AuthHandler handles session endpoints
type AuthHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// sessionResponse is returned by login and register
type sessionResponse struct {
	SessionID string       `json:"session_id"`
	User      *models.User `json:"user"`
}

// clientSessionID returns the caller's session id, issuing one when absent
func clientSessionID(c *gin.Context) string {
	if sid := c.GetHeader(SessionHeader); sid != "" {
		return sid
	}
	return uuid.New().String()
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, false) {
		return
	}

	sid := clientSessionID(c)
	user, err := h.services.Auth.Login(c.Request.Context(), sid, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header(SessionHeader, sid)
	c.JSON(http.StatusOK, sessionResponse{SessionID: sid, User: user})
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req, false) {
		return
	}

	sid := clientSessionID(c)
	user, err := h.services.Auth.Register(c.Request.Context(), sid, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header(SessionHeader, sid)
	c.JSON(http.StatusCreated, sessionResponse{SessionID: sid, User: user})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.services.Auth.Logout(c.Request.Context(), sessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /v1/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, sessionResponse{SessionID: sessionID(c), User: sessionUser(c)})
}
