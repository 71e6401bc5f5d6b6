package service

import (
	"context"
	"fmt"
	"time"

	"crypto-pulse/internal/entity"
	"crypto-pulse/internal/stream/dto"
	"crypto-pulse/pkg/common"
	"crypto-pulse/pkg/logger"
	"crypto-pulse/pkg/reddit"
)

// PostSearcher abstracts the Reddit search client used by the fetcher.
type PostSearcher interface {
	SearchPosts(ctx context.Context, query, subreddit string, opts reddit.SearchOptions) ([]reddit.Post, error)
}

// Fetcher runs the coin x question aggregation fetch.
type Fetcher interface {
	Fetch(ctx context.Context, coins []entity.Currency, questions []entity.Question, limit int, timeFilter string) ([]dto.RawPost, error)
}

// NewFetcher creates a new Reddit-backed fetcher.
func NewFetcher(searcher PostSearcher, log *logger.Logger) Fetcher {
	return &fetcher{searcher: searcher, logger: log}
}

type fetcher struct {
	searcher PostSearcher
	logger   *logger.Logger
}

// Fetch issues one search per coin x question pair and flattens the results
// into normalized posts. A failed search aborts the whole call; ordering is
// coins x questions x source order.
func (f *fetcher) Fetch(ctx context.Context, coins []entity.Currency, questions []entity.Question, limit int, timeFilter string) ([]dto.RawPost, error) {
	sort := common.SortNew
	if timeFilter == common.TimeFilterAll {
		sort = common.SortRelevance
	}

	var posts []dto.RawPost
	for _, coin := range coins {
		for _, question := range questions {
			query := question.Query + " " + coin.Code

			results, err := f.searcher.SearchPosts(ctx, query, coin.Subreddit, reddit.SearchOptions{
				Limit: limit,
				Sort:  sort,
				Time:  timeFilter,
			})
			if err != nil {
				return nil, fmt.Errorf("search failed for coin %s question %s: %w", coin.Code, question.Label, err)
			}

			f.logger.Debug("Fetched posts",
				logger.StringField("coin", coin.Code),
				logger.StringField("question", question.Label),
				logger.IntField("count", len(results)),
			)

			for _, p := range results {
				posts = append(posts, normalizePost(coin, question, p))
			}
		}
	}
	return posts, nil
}

func normalizePost(coin entity.Currency, question entity.Question, p reddit.Post) dto.RawPost {
	author := p.Author
	if author == "" {
		author = common.AuthorUnknown
	}
	return dto.RawPost{
		Coin:        coin.Code,
		CoinID:      coin.ID,
		Category:    question.Label,
		QuestionID:  question.ID,
		Title:       p.Title,
		Text:        p.Body,
		Timestamp:   p.Created.UTC().Format(time.RFC3339),
		Author:      author,
		Score:       p.Score,
		URL:         p.URL,
		NumComments: p.NumComments,
		ExternalID:  p.ExternalID,
		Source:      common.SourceReddit,
	}
}
