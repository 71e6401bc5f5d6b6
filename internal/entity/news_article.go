package entity

import (
	"time"

	"github.com/lib/pq"
)

// NewsArticle represents a crypto news article with an optional sentiment
// score and one or more associated currencies.
type NewsArticle struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	URL          string     `gorm:"unique;not null" json:"url"`
	Score        *float64   `json:"score"`
	NewsDatetime time.Time  `gorm:"column:newsdatetime;not null" json:"newsdatetime"`
	Keywords     pq.StringArray `gorm:"type:text[]" json:"keywords,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Currencies   []Currency `gorm:"many2many:news_currency;joinForeignKey:news_id;joinReferences:currency_id" json:"currencies,omitempty"`
}

// TableName specifies the table name for the NewsArticle model.
func (NewsArticle) TableName() string {
	return "crypto_news"
}
