package http

import (
	"context"
	"fmt"
	"net/http"

	"crypto-pulse/internal/stream/dto"
	"crypto-pulse/internal/stream/service"
	"crypto-pulse/pkg/common"
	"crypto-pulse/pkg/logger"
	"crypto-pulse/pkg/utils"

	"github.com/labstack/echo/v4"
)

// StatusChecker verifies the Reddit credentials.
type StatusChecker interface {
	Me(ctx context.Context) (string, error)
}

// StreamHandler handles HTTP requests for the stream service.
type StreamHandler struct {
	ingestion service.IngestionService
	news      service.NewsQueryService
	status    StatusChecker
	logger    *logger.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(ingestion service.IngestionService, news service.NewsQueryService, status StatusChecker, logger *logger.Logger) *StreamHandler {
	return &StreamHandler{ingestion: ingestion, news: news, status: status, logger: logger}
}

// RegisterRoutes registers the stream routes to the Echo instance.
func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/reddit_posts", h.RedditPosts)
	e.POST("/reddit_db_dump", h.RedditDBDump)
	e.GET("/reddit_status", h.RedditStatus)
	e.POST("/twitter_posts", h.TwitterPosts)
	e.POST("/news", h.News)
}

type redditPostsRequest struct {
	Limit      *int   `json:"limit"`
	TimeFilter string `json:"time_filter"`
}

// RedditPosts godoc
// @Summary Fetch reddit posts for every tracked coin and question
// @Description Runs one search per coin x question pair and returns the flattened, normalized posts
// @Tags reddit
// @Accept  json
// @Produce  json
// @Param   request  body    redditPostsRequest   true    "Fetch options"
// @Success 200 {array} dto.RawPost
// @Failure 400 {object} dto.StatusResponse
// @Failure 500 {object} dto.StatusResponse
// @Router /reddit_posts [post]
func (h *StreamHandler) RedditPosts(c echo.Context) error {
	var req redditPostsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: "error", Message: "Invalid request payload."})
	}

	limit := common.DefaultFetchLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit < common.MinFetchLimit || limit > common.MaxFetchLimit {
		return c.JSON(http.StatusBadRequest, dto.StatusResponse{
			Status:  "error",
			Message: "Limit must be an integer between 1 and 100.",
		})
	}

	timeFilter := req.TimeFilter
	if timeFilter == "" {
		timeFilter = common.TimeFilterAll
	}
	if !common.TimeFilters[timeFilter] {
		return c.JSON(http.StatusBadRequest, dto.StatusResponse{
			Status:  "error",
			Message: "time_filter must be one of day, week, month, year, all.",
		})
	}

	posts, err := h.ingestion.FetchPosts(c.Request().Context(), limit, timeFilter)
	if err != nil {
		h.logger.Error("Failed to fetch reddit posts", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
	}
	if posts == nil {
		posts = []dto.RawPost{}
	}
	return c.JSON(http.StatusOK, posts)
}

// RedditDBDump godoc
// @Summary Fetch, score and persist reddit posts
// @Description Runs the aggregation fetch, scores each post and stores the results, skipping duplicates
// @Tags reddit
// @Accept  json
// @Produce  json
// @Param   request  body    dto.RedditDumpRequest   true    "Dump options"
// @Success 200 {object} dto.DumpResponse
// @Failure 400 {object} dto.StatusResponse
// @Failure 500 {object} dto.StatusResponse
// @Router /reddit_db_dump [post]
func (h *StreamHandler) RedditDBDump(c echo.Context) error {
	var req dto.RedditDumpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: "error", Message: "Invalid request payload."})
	}

	if req.Limit < common.MinFetchLimit || req.Limit > common.MaxFetchLimit {
		return c.JSON(http.StatusBadRequest, dto.StatusResponse{
			Status:  "error",
			Message: "Limit must be an integer between 1 and 100.",
		})
	}
	if !common.TimeFilters[req.TimeFilter] {
		return c.JSON(http.StatusBadRequest, dto.StatusResponse{
			Status:  "error",
			Message: "time_filter must be one of day, week, month, year, all.",
		})
	}

	result, err := h.ingestion.DumpPosts(c.Request().Context(), req.Limit, req.TimeFilter)
	if err != nil {
		h.logger.Error("Failed to dump reddit posts", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.DumpResponse{
		Status:   "success",
		Message:  fmt.Sprintf("Inserted %d posts (%d duplicates skipped, %d failed).", result.Inserted, result.Skipped, len(result.Failed)),
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
	})
}

// RedditStatus godoc
// @Summary Check reddit credentials
// @Tags reddit
// @Produce  json
// @Success 200 {object} dto.StatusResponse
// @Failure 401 {object} dto.StatusResponse
// @Router /reddit_status [get]
func (h *StreamHandler) RedditStatus(c echo.Context) error {
	name, err := h.status.Me(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusUnauthorized, dto.StatusResponse{Status: "error", Message: err.Error()})
	}
	return c.JSON(http.StatusOK, dto.StatusResponse{
		Status:  "success",
		Message: fmt.Sprintf("Authenticated. User: %s", name),
	})
}

// TwitterPosts godoc
// @Summary Fetch twitter posts (disabled)
// @Description The Twitter collaborator is disabled; the endpoint is kept for API compatibility
// @Tags twitter
// @Produce  json
// @Failure 501 {object} dto.StatusResponse
// @Router /twitter_posts [post]
func (h *StreamHandler) TwitterPosts(c echo.Context) error {
	var req dto.TwitterPostsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: "error", Message: "Invalid request payload."})
	}
	return c.JSON(http.StatusNotImplemented, dto.StatusResponse{
		Status:  "error",
		Message: "Twitter ingestion is disabled.",
	})
}

// News godoc
// @Summary Filter news articles by date range and currency codes
// @Tags news
// @Accept  json
// @Produce  json
// @Param   request  body    dto.NewsRequest   true    "Filter options"
// @Success 200 {array} dto.NewsArticleResponse
// @Failure 400 {object} dto.ErrorBody
// @Failure 500 {object} dto.ErrorBody
// @Router /news [post]
func (h *StreamHandler) News(c echo.Context) error {
	var req dto.NewsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if req.StartDate == "" {
		req.StartDate = "2017-09-01"
	}
	if req.EndDate == "" {
		req.EndDate = "2025-01-31"
	}

	start, err := utils.ParseISOTime(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid ISO format for start_date or end_date"})
	}
	end, err := utils.ParseISOTime(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid ISO format for start_date or end_date"})
	}

	articles, err := h.news.Query(c.Request().Context(), start, end, req.CurrencyCodes)
	if err != nil {
		h.logger.Error("Failed to query news", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, articles)
}
