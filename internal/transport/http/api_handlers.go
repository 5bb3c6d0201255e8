package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
	"github.com/openroom/openroom-server/internal/core"
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	engine      *core.Engine
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(engine *core.Engine, authService *auth.Service, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		engine:      engine,
		authService: authService,
		log:         logger,
	}
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response body.
type AuthResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// sessionCookieMaxAge matches the 30-day session TTL.
const sessionCookieMaxAge = 30 * 24 * 3600

// Register handles user registration.
// POST /api/register
func (h *APIHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid register request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "user already exists"})
			return
		}
		h.log.Error().Err(err).Str("username", req.Username).Msg("failed to register user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("username", req.Username).Msg("user registered successfully")
	setAuthCookie(c, token, sessionCookieMaxAge)
	c.JSON(http.StatusCreated, AuthResponse{Token: token})
}

// Login handles user login.
// POST /api/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			clearAuthCookie(c)
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "you must sign in with a username before you can chat"})
			return
		}
		h.log.Error().Err(err).Str("username", req.Username).Msg("failed to login user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("username", req.Username).Msg("user logged in successfully")
	setAuthCookie(c, token, sessionCookieMaxAge)
	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

// Logout revokes the caller's session and drops their live connection.
// POST /api/logout
func (h *APIHandlers) Logout(c *gin.Context) {
	token := bearerToken(c)

	identity, err := h.authService.Logout(c.Request.Context(), token)
	if err != nil {
		clearAuthCookie(c)
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "invalid token"})
			return
		}
		h.log.Error().Err(err).Msg("failed to logout")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	if h.engine.Kick(identity) {
		h.log.Info().Str("client_id", identity).Msg("disconnected client on logout")
	}

	clearAuthCookie(c)
	c.Status(http.StatusNoContent)
}
