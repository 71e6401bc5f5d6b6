package repository

import (
	"context"

	"crypto-pulse/internal/entity"

	"gorm.io/gorm"
)

// AggregatedSentimentRepository reads the aggregation output for alerting.
type AggregatedSentimentRepository interface {
	// LatestPerCoin returns the most recent aggregated sentiment for every
	// coin that has at least one window.
	LatestPerCoin(ctx context.Context) (map[uint]entity.AggregatedSentiment, error)
}

// NewAggregatedSentimentRepository creates a new GORM-based repository.
func NewAggregatedSentimentRepository(db *gorm.DB) AggregatedSentimentRepository {
	return &aggregatedSentimentRepository{db: db}
}

type aggregatedSentimentRepository struct {
	db *gorm.DB
}

func (r *aggregatedSentimentRepository) LatestPerCoin(ctx context.Context) (map[uint]entity.AggregatedSentiment, error) {
	var rows []entity.AggregatedSentiment
	err := r.db.WithContext(ctx).
		Order("coin_id, window_start ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]entity.AggregatedSentiment)
	for _, row := range rows {
		current, ok := latest[row.CoinID]
		if !ok || row.WindowStart.After(current.WindowStart) {
			latest[row.CoinID] = row
		}
	}
	return latest, nil
}
