package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto-pulse/internal/stream/dto"
	"crypto-pulse/internal/stream/service"
	"crypto-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngestion struct {
	posts     []dto.RawPost
	result    *service.SinkResult
	err       error
	lastLimit int
	lastTime  string
}

func (f *fakeIngestion) FetchPosts(ctx context.Context, limit int, timeFilter string) ([]dto.RawPost, error) {
	f.lastLimit, f.lastTime = limit, timeFilter
	return f.posts, f.err
}

func (f *fakeIngestion) DumpPosts(ctx context.Context, limit int, timeFilter string) (*service.SinkResult, error) {
	f.lastLimit, f.lastTime = limit, timeFilter
	return f.result, f.err
}

type fakeNewsQuery struct {
	articles []dto.NewsArticleResponse
	err      error
}

func (f *fakeNewsQuery) Query(ctx context.Context, start, end time.Time, codes []string) ([]dto.NewsArticleResponse, error) {
	return f.articles, f.err
}

type fakeStatus struct {
	name string
	err  error
}

func (f *fakeStatus) Me(ctx context.Context) (string, error) {
	return f.name, f.err
}

func setupHandler(t *testing.T, ingestion *fakeIngestion, news *fakeNewsQuery, status *fakeStatus) *echo.Echo {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	e := echo.New()
	NewStreamHandler(ingestion, news, status, log).RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRedditPosts_LimitValidation(t *testing.T) {
	ingestion := &fakeIngestion{posts: []dto.RawPost{{Coin: "BTC"}}}
	e := setupHandler(t, ingestion, &fakeNewsQuery{}, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/reddit_posts", `{"limit": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "between 1 and 100")

	rec = doJSON(e, http.MethodPost, "/reddit_posts", `{"limit": 101}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/reddit_posts", `{"limit": 100, "time_filter": "week"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, ingestion.lastLimit)
	assert.Equal(t, "week", ingestion.lastTime)
}

func TestRedditPosts_Defaults(t *testing.T) {
	ingestion := &fakeIngestion{}
	e := setupHandler(t, ingestion, &fakeNewsQuery{}, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/reddit_posts", `{}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, ingestion.lastLimit)
	assert.Equal(t, "all", ingestion.lastTime)
	// nil post slice still serializes as an array
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestRedditPosts_InvalidTimeFilter(t *testing.T) {
	e := setupHandler(t, &fakeIngestion{}, &fakeNewsQuery{}, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/reddit_posts", `{"time_filter": "decade"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "time_filter must be one of")
}

func TestRedditDBDump(t *testing.T) {
	ingestion := &fakeIngestion{result: &service.SinkResult{
		Inserted: 3,
		Skipped:  2,
		Failed:   []dto.FailedRecord{{ExternalID: "t3_x", Reason: "bad timestamp"}},
	}}
	e := setupHandler(t, ingestion, &fakeNewsQuery{}, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/reddit_db_dump", `{"limit": 10, "time_filter": "day"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inserted 3 posts (2 duplicates skipped, 1 failed).")
	assert.Contains(t, rec.Body.String(), "t3_x")
}

func TestRedditDBDump_FetchErrorAborts(t *testing.T) {
	e := setupHandler(t, &fakeIngestion{err: errors.New("reddit unavailable")}, &fakeNewsQuery{}, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/reddit_db_dump", `{"limit": 10, "time_filter": "day"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "reddit unavailable")
}

func TestRedditStatus(t *testing.T) {
	e := setupHandler(t, &fakeIngestion{}, &fakeNewsQuery{}, &fakeStatus{name: "crypto_bot"})
	req := httptest.NewRequest(http.MethodGet, "/reddit_status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authenticated. User: crypto_bot")

	e = setupHandler(t, &fakeIngestion{}, &fakeNewsQuery{}, &fakeStatus{err: errors.New("401 unauthorized")})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTwitterPosts_Disabled(t *testing.T) {
	e := setupHandler(t, &fakeIngestion{}, &fakeNewsQuery{}, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/twitter_posts", `{"limit": 5}`)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, rec.Body.String(), "Twitter ingestion is disabled.")
}

func TestNews_InvalidDates(t *testing.T) {
	e := setupHandler(t, &fakeIngestion{}, &fakeNewsQuery{}, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/news", `{"start_date": "01-09-2017"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid ISO format for start_date or end_date")
}

func TestNews_ReturnsArticles(t *testing.T) {
	news := &fakeNewsQuery{articles: []dto.NewsArticleResponse{
		{ID: 1, Title: "btc rallies", URL: "https://example.com/a", CurrencyCodes: []string{"BTC"}, NewsDatetime: "2024-06-01T12:00:00Z"},
	}}
	e := setupHandler(t, &fakeIngestion{}, news, &fakeStatus{})

	rec := doJSON(e, http.MethodPost, "/news", `{"currency_codes": ["BTC"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "btc rallies")
}
