package service

import (
	"context"
	"testing"
	"time"

	"crypto-pulse/internal/entity"
	"crypto-pulse/internal/registry"
	"crypto-pulse/internal/sentiment/repository"
	"crypto-pulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreRepo struct {
	between []repository.MessageScore
	since   []repository.MessageScore
	content []string
}

func (f *fakeScoreRepo) FetchScoresBetween(ctx context.Context, start, end time.Time) ([]repository.MessageScore, error) {
	return f.between, nil
}

func (f *fakeScoreRepo) FetchScoresSince(ctx context.Context, since time.Time) ([]repository.MessageScore, error) {
	return f.since, nil
}

func (f *fakeScoreRepo) FetchContentForCoin(ctx context.Context, coinID uint, start, end time.Time) ([]string, error) {
	return f.content, nil
}

type fakeAggRepo struct {
	inserted []entity.AggregatedSentiment
	history  map[uint]float64
}

func (f *fakeAggRepo) InsertBatch(ctx context.Context, records []entity.AggregatedSentiment) error {
	f.inserted = append(f.inserted, records...)
	return nil
}

func (f *fakeAggRepo) LastBefore(ctx context.Context, coinIDs []uint, before time.Time) (map[uint]float64, error) {
	if f.history == nil {
		return map[uint]float64{}, nil
	}
	return f.history, nil
}

func aggTestRegistry() *registry.Registry {
	return &registry.Registry{
		Coins: []entity.Currency{
			{ID: 91, Code: "BTC"},
			{ID: 92, Code: "ETH"},
		},
		Questions: []entity.Question{
			{ID: 1, Code: "1", Label: "trading"},
			{ID: 4, Code: "4", Label: "market"},
		},
	}
}

func aggTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func TestCalculateFinalSentiment_Renormalizes(t *testing.T) {
	weights := map[string]float64{"1": 0.15, "4": 0.20}

	// only question 4 contributed, so its weight renormalizes to 1.0
	got := CalculateFinalSentiment(weights, map[string][]float64{
		"4": {0.5, 0.7},
	})
	assert.InDelta(t, 0.6, got, 1e-9)

	// two questions split by their relative weights
	got = CalculateFinalSentiment(weights, map[string][]float64{
		"1": {0.0},
		"4": {0.7},
	})
	want := (0.15/0.35)*0.0 + (0.20/0.35)*0.7
	assert.InDelta(t, want, got, 1e-9)

	assert.Zero(t, CalculateFinalSentiment(weights, map[string][]float64{}))
	assert.Zero(t, CalculateFinalSentiment(weights, map[string][]float64{"9": {0.5}}))
}

func TestAggregate_BucketsAndCarryForward(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Minute)

	repo := &fakeScoreRepo{between: []repository.MessageScore{
		{QuestionID: 4, CurrencyID: 91, SentimentScore: 0.8, CreatedAt: start.Add(time.Minute)},
		{QuestionID: 4, CurrencyID: 91, SentimentScore: 0.4, CreatedAt: start.Add(2 * time.Minute)},
	}}
	agg := &fakeAggRepo{history: map[uint]float64{92: 0.25}}

	svc := NewAggregatorService(aggTestRegistry(), nil, repo, agg, aggTestLogger(t))
	resp, err := svc.Aggregate(context.Background(), start, end)
	require.NoError(t, err)

	// 12:00, 12:05 and 12:10
	require.Len(t, resp, 3)
	assert.Equal(t, "2024-06-01T12:00:00Z", resp[0].Time)

	// fresh scores in the first bucket
	assert.InDelta(t, 0.6, resp[0].Coins["BTC"], 1e-9)
	// ETH had no messages anywhere and carries its backfilled history
	assert.InDelta(t, 0.25, resp[0].Coins["ETH"], 1e-9)

	// later buckets carry the freshly computed BTC value forward
	assert.InDelta(t, 0.6, resp[1].Coins["BTC"], 1e-9)
	assert.InDelta(t, 0.6, resp[2].Coins["BTC"], 1e-9)
	assert.InDelta(t, 0.25, resp[2].Coins["ETH"], 1e-9)

	// every bucket x coin pair is persisted
	assert.Len(t, agg.inserted, 6)
}

func TestAggregate_NoHistoryDefaultsToZero(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := NewAggregatorService(aggTestRegistry(), nil, &fakeScoreRepo{}, &fakeAggRepo{}, aggTestLogger(t))
	resp, err := svc.Aggregate(context.Background(), start, start)
	require.NoError(t, err)

	require.Len(t, resp, 1)
	assert.Zero(t, resp[0].Coins["BTC"])
	assert.Zero(t, resp[0].Coins["ETH"])
}

func TestMinuteBuckets_GroupsByMinuteOldestFirst(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Minute)
	repo := &fakeScoreRepo{since: []repository.MessageScore{
		{CurrencyID: 91, SentimentScore: 0.9, CreatedAt: now.Add(-time.Minute)},
		{CurrencyID: 91, SentimentScore: 0.1, CreatedAt: now.Add(-time.Minute).Add(30 * time.Second)},
		{CurrencyID: 92, SentimentScore: -0.2, CreatedAt: now},
	}}

	svc := NewAggregatorService(aggTestRegistry(), nil, repo, &fakeAggRepo{}, aggTestLogger(t))
	buckets, err := svc.MinuteBuckets(context.Background())
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Equal(t, now.Add(-time.Minute).Format("2006-01-02T15:04Z"), buckets[0].Time)
	require.Len(t, buckets[0].Coins, 1)
	assert.InDelta(t, 0.5, buckets[0].Coins[0]["91"], 1e-9)
	require.Len(t, buckets[1].Coins, 1)
	assert.InDelta(t, -0.2, buckets[1].Coins[0]["92"], 1e-9)
}

func TestTrailingSentiment_ThreeBuckets(t *testing.T) {
	now := time.Now()
	repo := &fakeScoreRepo{since: []repository.MessageScore{
		{CurrencyID: 91, SentimentScore: 0.6, CreatedAt: now.Add(-time.Minute)},
		{CurrencyID: 91, SentimentScore: 0.2, CreatedAt: now.Add(-2 * time.Minute)},
	}}

	svc := NewAggregatorService(aggTestRegistry(), nil, repo, &fakeAggRepo{}, aggTestLogger(t))
	buckets, err := svc.TrailingSentiment(context.Background())
	require.NoError(t, err)

	require.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Contains(t, b, "time")
	}
	// both samples fall in the most recent five minute window
	latest := buckets[2]
	assert.InDelta(t, 0.4, latest["91"].(float64), 1e-9)
	_, hasEth := buckets[0]["92"]
	assert.False(t, hasEth)
}
