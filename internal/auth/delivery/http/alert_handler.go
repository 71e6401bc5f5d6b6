package http

import (
	"net/http"

	"crypto-pulse/internal/auth/dto"
	"crypto-pulse/internal/auth/middleware"
	"crypto-pulse/internal/auth/service"
	"crypto-pulse/internal/entity"
	"crypto-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertHandler handles alert subscription requests for the authenticated
// user.
type AlertHandler struct {
	subSvc service.SubscriptionService
	logger *logger.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(subSvc service.SubscriptionService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{subSvc: subSvc, logger: logger}
}

// RegisterRoutes registers the alert routes; the group must carry the auth
// middleware.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.DELETE("/:id", h.Delete)
}

// Create godoc
// @Summary Create an alert subscription
// @Tags alerts
// @Accept  json
// @Produce  json
// @Param   request  body    dto.CreateAlertRequest   true    "Subscription"
// @Success 201 {object} entity.Subscription
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /alerts [post]
func (h *AlertHandler) Create(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
	}

	var req dto.CreateAlertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid payload"})
	}

	sub := entity.Subscription{
		UserID:    identity.UID,
		CoinID:    req.CoinID,
		Threshold: req.Threshold,
		Email:     req.Email,
	}
	if err := h.subSvc.Create(c.Request().Context(), &sub); err != nil {
		h.logger.Error("Failed to create alert subscription", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Could not create alert"})
	}
	return c.JSON(http.StatusCreated, sub)
}

// List godoc
// @Summary List the authenticated user's alert subscriptions
// @Tags alerts
// @Produce  json
// @Success 200 {array} entity.Subscription
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /alerts [get]
func (h *AlertHandler) List(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
	}

	subs, err := h.subSvc.List(c.Request().Context(), identity.UID)
	if err != nil {
		h.logger.Error("Failed to list alert subscriptions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Could not list alerts"})
	}
	return c.JSON(http.StatusOK, subs)
}

// Delete godoc
// @Summary Delete an alert subscription
// @Tags alerts
// @Produce  json
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /alerts/{id} [delete]
func (h *AlertHandler) Delete(c echo.Context) error {
	if _, ok := middleware.IdentityFrom(c); !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing alert ID"})
	}

	if err := h.subSvc.Delete(c.Request().Context(), id); err != nil {
		h.logger.Error("Failed to delete alert subscription", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
