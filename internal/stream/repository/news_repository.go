package repository

import (
	"context"
	"time"

	"crypto-pulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository defines the interface for querying and refreshing news.
type NewsRepository interface {
	// FindByDateRange returns articles whose newsdatetime lies in
	// [start, end] inclusive, newest first. When codes is non-empty, only
	// articles associated with any of those currency codes are returned.
	FindByDateRange(ctx context.Context, start, end time.Time, codes []string) ([]entity.NewsArticle, error)
	// UpsertArticle inserts an article, skipping silently on a duplicate
	// URL, and links it to the currencies with the given codes.
	UpsertArticle(ctx context.Context, article *entity.NewsArticle, codes []string) (bool, error)
	UpdateScore(ctx context.Context, id uint, score float64) error
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
}

// NewNewsRepository creates a new GORM-based news repository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

type newsRepository struct {
	db *gorm.DB
}

func (r *newsRepository) FindByDateRange(ctx context.Context, start, end time.Time, codes []string) ([]entity.NewsArticle, error) {
	var articles []entity.NewsArticle
	q := r.db.WithContext(ctx).Model(&entity.NewsArticle{}).
		Preload("Currencies").
		Where("crypto_news.newsdatetime >= ? AND crypto_news.newsdatetime <= ?", start, end)

	if len(codes) > 0 {
		q = q.Joins("JOIN news_currency nc ON nc.news_id = crypto_news.id").
			Joins("JOIN currencies c ON c.id = nc.currency_id").
			Where("c.code IN ?", codes).
			Group("crypto_news.id")
	}

	if err := q.Order("crypto_news.newsdatetime DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *newsRepository) UpsertArticle(ctx context.Context, article *entity.NewsArticle, codes []string) (bool, error) {
	var inserted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Omit("Currencies").Create(article)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		inserted = true

		if len(codes) == 0 {
			return nil
		}
		var currencies []entity.Currency
		if err := tx.Where("code IN ?", codes).Find(&currencies).Error; err != nil {
			return err
		}
		if len(currencies) == 0 {
			return nil
		}
		return tx.Model(article).Association("Currencies").Append(currencies)
	})
	return inserted, err
}

func (r *newsRepository) UpdateScore(ctx context.Context, id uint, score float64) error {
	return r.db.WithContext(ctx).Model(&entity.NewsArticle{}).
		Where("id = ?", id).
		Update("score", score).Error
}

func (r *newsRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return existing, nil
	}
	var found []entity.NewsArticle
	if err := r.db.WithContext(ctx).Select("id", "url").
		Where("url IN ?", urls).
		Find(&found).Error; err != nil {
		return nil, err
	}
	for _, a := range found {
		existing[a.URL] = true
	}
	return existing, nil
}
