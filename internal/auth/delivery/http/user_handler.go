package http

import (
	"errors"
	"net/http"

	"crypto-pulse/internal/auth/dto"
	"crypto-pulse/internal/auth/middleware"
	"crypto-pulse/internal/auth/repository"
	"crypto-pulse/internal/auth/service"
	"crypto-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UserHandler handles profile requests for the authenticated user.
type UserHandler struct {
	userSvc service.UserService
	logger  *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, logger: logger}
}

// RegisterRoutes registers the user routes; the group must carry the auth
// middleware.
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PATCH("/profile", h.UpdateProfile)
	g.POST("/coins", h.AddCoin)
	g.POST("/questions", h.AddQuestion)
}

// GetProfile godoc
// @Summary Return the authenticated user's profile
// @Tags users
// @Produce  json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
	}

	profile, err := h.userSvc.GetProfile(c.Request().Context(), identity.UID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		h.logger.Error("Failed to retrieve user profile", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve user profile"})
	}
	return c.JSON(http.StatusOK, dto.ProfileResponse{Success: true, User: profile})
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Description Applies only the name, coins and questions fields; anything else is ignored
// @Tags users
// @Accept  json
// @Produce  json
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
	}

	var fields map[string]interface{}
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	profile, err := h.userSvc.UpdateProfile(c.Request().Context(), identity.UID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		h.logger.Error("Failed to update user profile", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update user profile"})
	}
	return c.JSON(http.StatusOK, dto.ProfileResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    profile,
	})
}

// AddCoin godoc
// @Summary Add a coin to the authenticated user's watch list
// @Tags users
// @Accept  json
// @Produce  json
// @Param   request  body    dto.AddCoinRequest   true    "Coin id"
// @Success 200 {object} dto.CoinsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/users/coins [post]
func (h *UserHandler) AddCoin(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
	}

	var req dto.AddCoinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.CoinID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No coin_id provided"})
	}

	coins, err := h.userSvc.AddCoin(c.Request().Context(), identity.UID, req.CoinID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		h.logger.Error("Failed to add coin", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add coin"})
	}
	return c.JSON(http.StatusOK, dto.CoinsResponse{
		Success: true,
		Message: "Coin added successfully",
		Coins:   coins,
	})
}

// AddQuestion godoc
// @Summary Add a question to the authenticated user's watch list
// @Tags users
// @Accept  json
// @Produce  json
// @Param   request  body    dto.AddQuestionRequest   true    "Question"
// @Success 200 {object} dto.QuestionsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/users/questions [post]
func (h *UserHandler) AddQuestion(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
	}

	var req dto.AddQuestionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Question == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No question data provided"})
	}

	questions, err := h.userSvc.AddQuestion(c.Request().Context(), identity.UID, req.Question)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		h.logger.Error("Failed to add question", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add question"})
	}
	return c.JSON(http.StatusOK, dto.QuestionsResponse{
		Success:   true,
		Message:   "Question added successfully",
		Questions: questions,
	})
}
