package http

import (
	"errors"
	"net/http"

	"crypto-pulse/internal/auth/config"
	"crypto-pulse/internal/auth/dto"
	"crypto-pulse/internal/auth/service"
	"crypto-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles sign-in and client configuration requests.
type AuthHandler struct {
	cfg     *config.Config
	authSvc service.AuthService
	logger  *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, authSvc service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, authSvc: authSvc, logger: logger}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/google", h.GoogleSignIn)
	g.GET("/get-firebase-config", h.FirebaseConfig)
}

// GoogleSignIn godoc
// @Summary Sign in with a Google ID token
// @Description Verifies the Firebase ID token, creates the profile on first sign-in, and returns a custom session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request  body    dto.GoogleAuthRequest   true    "ID token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/google [post]
func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	var req dto.GoogleAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.IDToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No ID token provided"})
	}

	resp, err := h.authSvc.SignInWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication failed"})
		}
		h.logger.Error("Sign-in failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Authentication failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// FirebaseConfig godoc
// @Summary Return the client-side Firebase configuration
// @Tags auth
// @Produce  json
// @Success 200 {object} config.FirebaseWeb
// @Router /api/get-firebase-config [get]
func (h *AuthHandler) FirebaseConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cfg.FirebaseWeb)
}
