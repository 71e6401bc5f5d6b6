package repository

import (
	"context"
	"testing"
	"time"

	"crypto-pulse/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testDB(t, &entity.Currency{}, &entity.NewsArticle{})
	require.NoError(t, db.Create([]entity.Currency{
		{ID: 91, Code: "BTC", Name: "Bitcoin", Subreddit: "Bitcoin"},
		{ID: 92, Code: "ETH", Name: "Ethereum", Subreddit: "ethereum"},
	}).Error)
	return db
}

func newsAt(title, url string, at time.Time) *entity.NewsArticle {
	return &entity.NewsArticle{Title: title, URL: url, NewsDatetime: at}
}

func TestNewsRepository_UpsertArticle(t *testing.T) {
	db := newsTestDB(t)
	repo := NewNewsRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	inserted, err := repo.UpsertArticle(ctx, newsAt("btc rallies", "https://example.com/a", at), []string{"BTC"})
	require.NoError(t, err)
	assert.True(t, inserted)

	// duplicate URL is skipped silently
	inserted, err = repo.UpsertArticle(ctx, newsAt("btc rallies again", "https://example.com/a", at), []string{"BTC"})
	require.NoError(t, err)
	assert.False(t, inserted)

	articles, err := repo.FindByDateRange(ctx, at.Add(-time.Hour), at.Add(time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "btc rallies", articles[0].Title)
	require.Len(t, articles[0].Currencies, 1)
	assert.Equal(t, "BTC", articles[0].Currencies[0].Code)
}

func TestNewsRepository_FindByDateRange(t *testing.T) {
	db := newsTestDB(t)
	repo := NewNewsRepository(db)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }
	_, err := repo.UpsertArticle(ctx, newsAt("old btc", "https://example.com/1", day(1)), []string{"BTC"})
	require.NoError(t, err)
	_, err = repo.UpsertArticle(ctx, newsAt("eth news", "https://example.com/2", day(5)), []string{"ETH"})
	require.NoError(t, err)
	_, err = repo.UpsertArticle(ctx, newsAt("new btc", "https://example.com/3", day(10)), []string{"BTC", "ETH"})
	require.NoError(t, err)

	// inclusive bounds, newest first
	all, err := repo.FindByDateRange(ctx, day(1), day(10), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new btc", all[0].Title)
	assert.Equal(t, "old btc", all[2].Title)

	// a coin filter never widens the result set
	btc, err := repo.FindByDateRange(ctx, day(1), day(10), []string{"BTC"})
	require.NoError(t, err)
	require.Len(t, btc, 2)

	eth, err := repo.FindByDateRange(ctx, day(2), day(10), []string{"ETH"})
	require.NoError(t, err)
	require.Len(t, eth, 2)
	assert.Equal(t, "new btc", eth[0].Title)

	none, err := repo.FindByDateRange(ctx, day(11), day(20), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewsRepository_UpdateScoreAndExistingURLs(t *testing.T) {
	db := newsTestDB(t)
	repo := NewNewsRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	article := newsAt("scored", "https://example.com/s", at)
	_, err := repo.UpsertArticle(ctx, article, nil)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateScore(ctx, article.ID, 0.42))

	found, err := repo.FindByDateRange(ctx, at, at, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].Score)
	assert.InDelta(t, 0.42, *found[0].Score, 1e-9)

	existing, err := repo.ExistingURLs(ctx, []string{"https://example.com/s", "https://example.com/missing"})
	require.NoError(t, err)
	assert.True(t, existing["https://example.com/s"])
	assert.False(t, existing["https://example.com/missing"])
}
