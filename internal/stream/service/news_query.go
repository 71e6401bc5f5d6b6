package service

import (
	"context"
	"time"

	"crypto-pulse/internal/stream/dto"
	"crypto-pulse/internal/stream/repository"
	"crypto-pulse/pkg/logger"
)

// NewsQueryService filters the pre-populated news table by date range and
// currency codes.
type NewsQueryService interface {
	Query(ctx context.Context, start, end time.Time, codes []string) ([]dto.NewsArticleResponse, error)
}

// NewNewsQueryService creates a new news query service.
func NewNewsQueryService(newsRepo repository.NewsRepository, log *logger.Logger) NewsQueryService {
	return &newsQueryService{newsRepo: newsRepo, logger: log}
}

type newsQueryService struct {
	newsRepo repository.NewsRepository
	logger   *logger.Logger
}

func (s *newsQueryService) Query(ctx context.Context, start, end time.Time, codes []string) ([]dto.NewsArticleResponse, error) {
	articles, err := s.newsRepo.FindByDateRange(ctx, start, end, codes)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NewsArticleResponse, 0, len(articles))
	for _, a := range articles {
		currencyCodes := make([]string, 0, len(a.Currencies))
		for _, c := range a.Currencies {
			currencyCodes = append(currencyCodes, c.Code)
		}
		responses = append(responses, dto.NewsArticleResponse{
			ID:            a.ID,
			Title:         a.Title,
			URL:           a.URL,
			Score:         a.Score,
			CurrencyCodes: currencyCodes,
			NewsDatetime:  a.NewsDatetime.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return responses, nil
}
