package repository

import (
	"context"
	"time"

	"crypto-pulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AggregatedSentimentRepository persists and reads per-window coin scores.
type AggregatedSentimentRepository interface {
	// InsertBatch bulk-inserts the given windows, silently skipping rows
	// that already exist.
	InsertBatch(ctx context.Context, records []entity.AggregatedSentiment) error
	// LastBefore returns the most recent score per coin strictly before the
	// given time. Coins without history are absent from the map.
	LastBefore(ctx context.Context, coinIDs []uint, before time.Time) (map[uint]float64, error)
}

// NewAggregatedSentimentRepository creates a new GORM-based repository.
func NewAggregatedSentimentRepository(db *gorm.DB) AggregatedSentimentRepository {
	return &aggregatedSentimentRepository{db: db}
}

type aggregatedSentimentRepository struct {
	db *gorm.DB
}

func (r *aggregatedSentimentRepository) InsertBatch(ctx context.Context, records []entity.AggregatedSentiment) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&records).Error
}

func (r *aggregatedSentimentRepository) LastBefore(ctx context.Context, coinIDs []uint, before time.Time) (map[uint]float64, error) {
	if len(coinIDs) == 0 {
		return map[uint]float64{}, nil
	}

	var rows []struct {
		CoinID         uint
		SentimentScore float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (coin_id) coin_id, sentiment_score
		  FROM aggregated_sentiments
		 WHERE coin_id IN ? AND window_start < ?
		 ORDER BY coin_id, window_start DESC
	`, coinIDs, before).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]float64, len(rows))
	for _, row := range rows {
		result[row.CoinID] = row.SentimentScore
	}
	return result, nil
}
