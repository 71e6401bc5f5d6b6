package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"crypto-pulse/internal/sentiment/dto"
	"crypto-pulse/internal/sentiment/service"
	"crypto-pulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// SentimentHandler handles HTTP requests for the sentiment service.
type SentimentHandler struct {
	scorer     service.Scorer
	aggregator service.AggregatorService
	explainer  service.ExplainService
	logger     *logger.Logger
	upgrader   websocket.Upgrader
}

// NewSentimentHandler creates a new SentimentHandler.
func NewSentimentHandler(scorer service.Scorer, aggregator service.AggregatorService, explainer service.ExplainService, logger *logger.Logger) *SentimentHandler {
	return &SentimentHandler{
		scorer:     scorer,
		aggregator: aggregator,
		explainer:  explainer,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the sentiment routes to the Echo instance.
func (h *SentimentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/para-sentiment-analyze", h.ParaSentiment)
	e.POST("/sentence-sentiment-analyze", h.SentenceSentiment)
	e.POST("/aggregate", h.Aggregate)
	e.POST("/sentiment", h.TrailingSentiment)
	e.POST("/explain", h.Explain)
	e.GET("/ws", h.WS)
}

// bindStringArray decodes the request body as a strict JSON string array.
func bindStringArray(c echo.Context) ([]string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	var texts []string
	if err := json.Unmarshal(body, &texts); err != nil {
		return nil, err
	}
	return texts, nil
}

// ParaSentiment godoc
// @Summary Score paragraphs
// @Description Returns the mean VADER compound score per paragraph, null for empty input
// @Tags sentiment
// @Accept  json
// @Produce  json
// @Success 200 {array} number
// @Failure 400 {object} map[string]string
// @Router /para-sentiment-analyze [post]
func (h *SentimentHandler) ParaSentiment(c echo.Context) error {
	texts, err := bindStringArray(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Request body must be a JSON array of strings"})
	}
	return c.JSON(http.StatusOK, h.scorer.ScoreParagraphs(texts))
}

// SentenceSentiment godoc
// @Summary Score sentences
// @Description Returns the VADER compound score per input, each treated as one sentence
// @Tags sentiment
// @Accept  json
// @Produce  json
// @Success 200 {array} number
// @Failure 400 {object} map[string]string
// @Router /sentence-sentiment-analyze [post]
func (h *SentimentHandler) SentenceSentiment(c echo.Context) error {
	texts, err := bindStringArray(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Request body must be a JSON array of strings"})
	}
	return c.JSON(http.StatusOK, h.scorer.ScoreSentences(texts))
}

// Aggregate godoc
// @Summary Aggregate scored messages into five-minute windows
// @Tags sentiment
// @Accept  json
// @Produce  json
// @Param   request  body    dto.AggregateRequest   true    "Window override"
// @Success 200 {array} dto.BucketEntry
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /aggregate [post]
func (h *SentimentHandler) Aggregate(c echo.Context) error {
	var req dto.AggregateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}

	now := time.Now().UTC()
	end := now
	start := now.Add(-1 * time.Hour)
	if req.EndTime != "" {
		if t, err := time.Parse(time.RFC3339, req.EndTime); err == nil {
			end = t.UTC()
		}
	}
	if req.StartTime != "" {
		if t, err := time.Parse(time.RFC3339, req.StartTime); err == nil {
			start = t.UTC()
		}
	}

	buckets, err := h.aggregator.Aggregate(c.Request().Context(), start, end)
	if err != nil {
		h.logger.Error("Aggregation failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "aggregation failed"})
	}
	return c.JSON(http.StatusOK, buckets)
}

// TrailingSentiment godoc
// @Summary Average per-coin scores over the three trailing five-minute windows
// @Tags sentiment
// @Produce  json
// @Success 200 {array} dto.TrailingBucket
// @Failure 500 {object} map[string]string
// @Router /sentiment [post]
func (h *SentimentHandler) TrailingSentiment(c echo.Context) error {
	buckets, err := h.aggregator.TrailingSentiment(c.Request().Context())
	if err != nil {
		h.logger.Error("Trailing sentiment failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, buckets)
}

// Explain godoc
// @Summary Explain the sentiment of a coin over a window
// @Tags sentiment
// @Accept  json
// @Produce  json
// @Param   request  body    dto.ExplainRequest   true    "Coin and window"
// @Success 200 {object} dto.ExplainResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /explain [post]
func (h *SentimentHandler) Explain(c echo.Context) error {
	var req dto.ExplainRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad start_time"})
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad end_time"})
	}

	explanation, err := h.explainer.Explain(c.Request().Context(), req.CoinID, start, end)
	if err != nil {
		if errors.Is(err, service.ErrNoMessages) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no messages found"})
		}
		h.logger.Error("Explain failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, dto.ExplainResponse{Explanation: explanation})
}

// WS streams minute-bucketed sentiment averages, on connect and then every
// five minutes.
func (h *SentimentHandler) WS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", logger.ErrorField(err))
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()
	send := func() error {
		buckets, err := h.aggregator.MinuteBuckets(ctx)
		if err != nil {
			h.logger.Error("WebSocket update skipped", logger.ErrorField(err))
			return nil
		}
		return conn.WriteJSON(buckets)
	}

	if err := send(); err != nil {
		return nil
	}

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := send(); err != nil {
				return nil
			}
		}
	}
}
