package repository

import (
	"context"
	"time"

	"crypto-pulse/internal/entity"

	"gorm.io/gorm"
)

// MessageScore is the projection of raw_messages used by aggregation.
// Unscored rows are excluded at query time.
type MessageScore struct {
	QuestionID     uint
	CurrencyID     uint
	SentimentScore float64
	CreatedAt      time.Time
}

// RawMessageRepository reads scored messages for aggregation and explain.
type RawMessageRepository interface {
	// FetchScoresBetween returns scored rows with created_at in [start, end),
	// oldest first.
	FetchScoresBetween(ctx context.Context, start, end time.Time) ([]MessageScore, error)
	// FetchScoresSince returns scored rows created after the given time,
	// newest first.
	FetchScoresSince(ctx context.Context, since time.Time) ([]MessageScore, error)
	// FetchContentForCoin returns message contents for one coin in [start, end].
	FetchContentForCoin(ctx context.Context, coinID uint, start, end time.Time) ([]string, error)
}

// NewRawMessageRepository creates a new GORM-based raw message reader.
func NewRawMessageRepository(db *gorm.DB) RawMessageRepository {
	return &rawMessageRepository{db: db}
}

type rawMessageRepository struct {
	db *gorm.DB
}

func (r *rawMessageRepository) FetchScoresBetween(ctx context.Context, start, end time.Time) ([]MessageScore, error) {
	var out []MessageScore
	err := r.db.WithContext(ctx).
		Model(&entity.RawMessage{}).
		Select("question_id", "currency_id", "sentiment_score", "created_at").
		Where("sentiment_score IS NOT NULL").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawMessageRepository) FetchScoresSince(ctx context.Context, since time.Time) ([]MessageScore, error) {
	var out []MessageScore
	err := r.db.WithContext(ctx).
		Model(&entity.RawMessage{}).
		Select("question_id", "currency_id", "sentiment_score", "created_at").
		Where("sentiment_score IS NOT NULL").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawMessageRepository) FetchContentForCoin(ctx context.Context, coinID uint, start, end time.Time) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Model(&entity.RawMessage{}).
		Where("currency_id = ?", coinID).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at ASC").
		Pluck("content", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
