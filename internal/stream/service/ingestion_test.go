package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-pulse/internal/entity"
	"crypto-pulse/internal/registry"
	"crypto-pulse/internal/stream/dto"
	"crypto-pulse/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	posts []dto.RawPost
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, coins []entity.Currency, questions []entity.Question, limit int, timeFilter string) ([]dto.RawPost, error) {
	return f.posts, f.err
}

type fakeScorer struct {
	err error
}

func (f *fakeScorer) ScoreTexts(ctx context.Context, texts []string) ([]*float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	scores := make([]*float64, len(texts))
	for i := range texts {
		v := 0.5
		scores[i] = &v
	}
	return scores, nil
}

type fakeRawMessageRepo struct {
	seen map[string]bool
	err  error
}

func (f *fakeRawMessageRepo) CreateIgnoreConflict(ctx context.Context, msg *entity.RawMessage) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	key := msg.Source + ":" + msg.ExternalID
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeRawMessageRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.seen)), nil
}

type fakePostCache struct {
	stored map[string][]dto.RawPost
}

func (f *fakePostCache) key(limit int, timeFilter string) string {
	return timeFilter + ":" + string(rune('0'+limit))
}

func (f *fakePostCache) Get(ctx context.Context, limit int, timeFilter string) ([]dto.RawPost, bool, error) {
	posts, ok := f.stored[f.key(limit, timeFilter)]
	return posts, ok, nil
}

func (f *fakePostCache) Set(ctx context.Context, limit int, timeFilter string, posts []dto.RawPost) error {
	if f.stored == nil {
		f.stored = map[string][]dto.RawPost{}
	}
	f.stored[f.key(limit, timeFilter)] = posts
	return nil
}

func testRegistry() *registry.Registry {
	return &registry.Registry{Coins: testCoins(), Questions: testQuestions()}
}

func testPost(externalID string) dto.RawPost {
	return dto.RawPost{
		Coin:       "BTC",
		CoinID:     91,
		Category:   "market",
		QuestionID: 4,
		Title:      "btc to the moon",
		Text:       "serious analysis inside",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Author:     "alice",
		ExternalID: externalID,
		Source:     common.SourceReddit,
	}
}

func TestIngestion_DumpCountsInsertedAndSkipped(t *testing.T) {
	fetcher := &fakeFetcher{posts: []dto.RawPost{
		testPost("t3_one"),
		testPost("t3_two"),
		testPost("t3_one"), // duplicate external id within the same dump
	}}
	repo := &fakeRawMessageRepo{}
	svc := NewIngestionService(testRegistry(), fetcher, &fakeScorer{}, repo, &fakePostCache{}, testLogger(t))

	result, err := svc.DumpPosts(context.Background(), 10, "day")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Failed)
}

func TestIngestion_DumpRecordsFailures(t *testing.T) {
	bad := testPost("t3_bad")
	bad.Timestamp = "not-a-timestamp"
	fetcher := &fakeFetcher{posts: []dto.RawPost{testPost("t3_ok"), bad}}
	repo := &fakeRawMessageRepo{}
	svc := NewIngestionService(testRegistry(), fetcher, &fakeScorer{}, repo, &fakePostCache{}, testLogger(t))

	result, err := svc.DumpPosts(context.Background(), 10, "day")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "t3_bad", result.Failed[0].ExternalID)
}

func TestIngestion_DumpSurvivesScorerFailure(t *testing.T) {
	fetcher := &fakeFetcher{posts: []dto.RawPost{testPost("t3_one")}}
	svc := NewIngestionService(testRegistry(), fetcher, &fakeScorer{err: errors.New("scorer down")}, &fakeRawMessageRepo{}, &fakePostCache{}, testLogger(t))

	result, err := svc.DumpPosts(context.Background(), 10, "day")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
}

func TestIngestion_DumpAbortsOnFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("reddit unavailable")}
	svc := NewIngestionService(testRegistry(), fetcher, &fakeScorer{}, &fakeRawMessageRepo{}, &fakePostCache{}, testLogger(t))

	_, err := svc.DumpPosts(context.Background(), 10, "day")
	require.Error(t, err)
}

func TestIngestion_FetchServesFromCache(t *testing.T) {
	cache := &fakePostCache{}
	fetcher := &fakeFetcher{posts: []dto.RawPost{testPost("t3_one")}}
	svc := NewIngestionService(testRegistry(), fetcher, &fakeScorer{}, &fakeRawMessageRepo{}, cache, testLogger(t))

	first, err := svc.FetchPosts(context.Background(), 5, "week")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// a second call with the same key must not hit the fetcher again
	fetcher.err = errors.New("should not be called")
	second, err := svc.FetchPosts(context.Background(), 5, "week")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
