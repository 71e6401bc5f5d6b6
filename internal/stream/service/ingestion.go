package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"crypto-pulse/internal/entity"
	"crypto-pulse/internal/registry"
	"crypto-pulse/internal/stream/dto"
	"crypto-pulse/internal/stream/repository"
	"crypto-pulse/pkg/logger"
	"crypto-pulse/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SinkResult is the explicit partial-failure result of a bulk insert.
type SinkResult struct {
	Inserted int
	Skipped  int
	Failed   []dto.FailedRecord
}

// IngestionService runs the fetch -> score -> store pipeline.
type IngestionService interface {
	// FetchPosts runs the aggregation fetch over the full registry,
	// consulting the post cache first.
	FetchPosts(ctx context.Context, limit int, timeFilter string) ([]dto.RawPost, error)
	// DumpPosts fetches, scores and persists posts, returning the explicit
	// sink result.
	DumpPosts(ctx context.Context, limit int, timeFilter string) (*SinkResult, error)
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	reg *registry.Registry,
	fetcher Fetcher,
	scorer SentimentScorer,
	rawMessageRepo repository.RawMessageRepository,
	cache PostCache,
	log *logger.Logger,
) IngestionService {
	return &ingestionService{
		registry:       reg,
		fetcher:        fetcher,
		scorer:         scorer,
		rawMessageRepo: rawMessageRepo,
		cache:          cache,
		logger:         log,
	}
}

type ingestionService struct {
	registry       *registry.Registry
	fetcher        Fetcher
	scorer         SentimentScorer
	rawMessageRepo repository.RawMessageRepository
	cache          PostCache
	logger         *logger.Logger
}

func (s *ingestionService) FetchPosts(ctx context.Context, limit int, timeFilter string) ([]dto.RawPost, error) {
	if cached, ok, err := s.cache.Get(ctx, limit, timeFilter); err != nil {
		s.logger.Warn("Post cache read failed", logger.ErrorField(err))
	} else if ok {
		s.logger.Debug("Serving posts from cache", logger.IntField("count", len(cached)))
		return cached, nil
	}

	posts, err := s.fetcher.Fetch(ctx, s.registry.Coins, s.registry.Questions, limit, timeFilter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, limit, timeFilter, posts); err != nil {
		s.logger.Warn("Post cache write failed", logger.ErrorField(err))
	}
	return posts, nil
}

func (s *ingestionService) DumpPosts(ctx context.Context, limit int, timeFilter string) (*SinkResult, error) {
	posts, err := s.fetcher.Fetch(ctx, s.registry.Coins, s.registry.Questions, limit, timeFilter)
	if err != nil {
		return nil, err
	}

	scores := s.scorePosts(ctx, posts)

	result := &SinkResult{Failed: []dto.FailedRecord{}}
	for i, post := range posts {
		msg, err := s.toRawMessage(post, scores[i])
		if err != nil {
			result.Failed = append(result.Failed, dto.FailedRecord{ExternalID: post.ExternalID, Reason: err.Error()})
			continue
		}

		inserted, err := s.rawMessageRepo.CreateIgnoreConflict(ctx, msg)
		if err != nil {
			s.logger.Error("Failed to insert raw message",
				logger.ErrorField(err),
				logger.StringField("external_id", post.ExternalID),
			)
			result.Failed = append(result.Failed, dto.FailedRecord{ExternalID: post.ExternalID, Reason: err.Error()})
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	s.logger.Info("Dump finished",
		logger.IntField("fetched", len(posts)),
		logger.IntField("inserted", result.Inserted),
		logger.IntField("skipped", result.Skipped),
		logger.IntField("failed", len(result.Failed)),
	)
	return result, nil
}

// scorePosts sends title+body through the sentiment scorer. A scoring
// failure degrades to nil scores rather than aborting the dump.
func (s *ingestionService) scorePosts(ctx context.Context, posts []dto.RawPost) []*float64 {
	scores := make([]*float64, len(posts))
	if len(posts) == 0 {
		return scores
	}

	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = strings.TrimSpace(p.Title + " " + p.Text)
	}

	result, err := s.scorer.ScoreTexts(ctx, texts)
	if err != nil {
		s.logger.Error("Sentiment scoring failed, storing posts unscored", logger.ErrorField(err))
		return scores
	}
	return result
}

func (s *ingestionService) toRawMessage(post dto.RawPost, score *float64) (*entity.RawMessage, error) {
	createdAt, err := utils.ParseISOTime(post.Timestamp)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(map[string]interface{}{
		"score":        post.Score,
		"num_comments": post.NumComments,
		"category":     post.Category,
	})
	if err != nil {
		return nil, err
	}

	return &entity.RawMessage{
		ID:             uuid.NewString(),
		Source:         post.Source,
		ExternalID:     post.ExternalID,
		QuestionID:     post.QuestionID,
		CurrencyID:     post.CoinID,
		Author:         post.Author,
		Title:          utils.CleanToValidUTF8(post.Title),
		Content:        utils.CleanToValidUTF8(post.Text),
		SentimentScore: score,
		CreatedAt:      createdAt,
		FetchedAt:      time.Now().UTC(),
		Score:          post.Score,
		NumComments:    post.NumComments,
		URL:            post.URL,
		Metadata:       datatypes.JSON(metadata),
	}, nil
}
