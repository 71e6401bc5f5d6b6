package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crypto-pulse/internal/sentiment/dto"
	"crypto-pulse/internal/sentiment/service"
	"crypto-pulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAggregator struct {
	buckets  []dto.BucketEntry
	trailing []dto.TrailingBucket
	minutes  []dto.MinuteBucket
	err      error
}

func (f *fakeAggregator) Aggregate(ctx context.Context, start, end time.Time) ([]dto.BucketEntry, error) {
	return f.buckets, f.err
}

func (f *fakeAggregator) TrailingSentiment(ctx context.Context) ([]dto.TrailingBucket, error) {
	return f.trailing, f.err
}

func (f *fakeAggregator) MinuteBuckets(ctx context.Context) ([]dto.MinuteBucket, error) {
	return f.minutes, f.err
}

type fakeExplainer struct {
	explanation string
	err         error
}

func (f *fakeExplainer) Explain(ctx context.Context, coinID uint, start, end time.Time) (string, error) {
	return f.explanation, f.err
}

func setupSentimentHandler(t *testing.T, agg *fakeAggregator, explainer *fakeExplainer) *echo.Echo {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	scorer, err := service.NewScorer()
	require.NoError(t, err)

	e := echo.New()
	NewSentimentHandler(scorer, agg, explainer, log).RegisterRoutes(e)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestParaSentiment_RejectsNonStringArrays(t *testing.T) {
	e := setupSentimentHandler(t, &fakeAggregator{}, &fakeExplainer{})

	rec := postJSON(e, "/para-sentiment-analyze", `{"not": "array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "JSON array of strings")

	rec = postJSON(e, "/para-sentiment-analyze", `[1, 2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParaSentiment_ScoresParagraphs(t *testing.T) {
	e := setupSentimentHandler(t, &fakeAggregator{}, &fakeExplainer{})

	rec := postJSON(e, "/para-sentiment-analyze", `["I love this coin.", ""]`)
	require.Equal(t, http.StatusOK, rec.Code)

	var scores []*float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scores))
	require.Len(t, scores, 2)
	require.NotNil(t, scores[0])
	assert.Greater(t, *scores[0], 0.0)
	assert.Nil(t, scores[1])
}

func TestSentenceSentiment(t *testing.T) {
	e := setupSentimentHandler(t, &fakeAggregator{}, &fakeExplainer{})

	rec := postJSON(e, "/sentence-sentiment-analyze", `["great news", "awful crash"]`)
	require.Equal(t, http.StatusOK, rec.Code)

	var scores []float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scores))
	require.Len(t, scores, 2)
	assert.Greater(t, scores[0], 0.0)
	assert.Less(t, scores[1], 0.0)
}

func TestAggregate_ReturnsBuckets(t *testing.T) {
	agg := &fakeAggregator{buckets: []dto.BucketEntry{
		{Time: "2024-06-01T12:00:00Z", Coins: map[string]float64{"BTC": 0.5}},
	}}
	e := setupSentimentHandler(t, agg, &fakeExplainer{})

	rec := postJSON(e, "/aggregate", `{"start_time": "2024-06-01T12:00:00Z", "end_time": "2024-06-01T13:00:00Z"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2024-06-01T12:00:00Z")
	assert.Contains(t, rec.Body.String(), "BTC")
}

func TestExplain(t *testing.T) {
	e := setupSentimentHandler(t, &fakeAggregator{}, &fakeExplainer{explanation: "mostly bullish chatter"})

	rec := postJSON(e, "/explain", `{"coin_id": 91, "start_time": "2024-06-01T00:00:00Z", "end_time": "2024-06-02T00:00:00Z"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mostly bullish chatter")
}

func TestExplain_BadWindow(t *testing.T) {
	e := setupSentimentHandler(t, &fakeAggregator{}, &fakeExplainer{})

	rec := postJSON(e, "/explain", `{"coin_id": 91, "start_time": "yesterday", "end_time": "2024-06-02T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad start_time")

	rec = postJSON(e, "/explain", `{"coin_id": 91, "start_time": "2024-06-01T00:00:00Z", "end_time": "tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad end_time")
}

func TestExplain_NoMessages(t *testing.T) {
	e := setupSentimentHandler(t, &fakeAggregator{}, &fakeExplainer{err: service.ErrNoMessages})

	rec := postJSON(e, "/explain", `{"coin_id": 91, "start_time": "2024-06-01T00:00:00Z", "end_time": "2024-06-02T00:00:00Z"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no messages found")
}
