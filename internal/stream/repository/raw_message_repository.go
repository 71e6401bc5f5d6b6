package repository

import (
	"context"

	"crypto-pulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RawMessageRepository defines the interface for the persistence sink.
type RawMessageRepository interface {
	// CreateIgnoreConflict inserts one message, skipping silently when a row
	// with the same (source, external_id) already exists. The returned bool
	// reports whether the database actually stored a row.
	CreateIgnoreConflict(ctx context.Context, msg *entity.RawMessage) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// NewRawMessageRepository creates a new GORM-based raw message repository.
func NewRawMessageRepository(db *gorm.DB) RawMessageRepository {
	return &rawMessageRepository{db: db}
}

type rawMessageRepository struct {
	db *gorm.DB
}

func (r *rawMessageRepository) CreateIgnoreConflict(ctx context.Context, msg *entity.RawMessage) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "external_id"}},
		DoNothing: true,
	}).Create(msg)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *rawMessageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.RawMessage{}).Count(&count).Error
	return count, err
}
