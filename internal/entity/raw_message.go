package entity

import (
	"time"

	"gorm.io/datatypes"
)

// RawMessage is a normalized social-media post persisted by the ingestion
// pipeline. Uniqueness is enforced on (source, external_id).
type RawMessage struct {
	ID             string         `gorm:"primaryKey;type:uuid" json:"id"`
	Source         string         `gorm:"not null;uniqueIndex:idx_raw_messages_source_external" json:"source"`
	ExternalID     string         `gorm:"not null;uniqueIndex:idx_raw_messages_source_external" json:"external_id"`
	QuestionID     uint           `gorm:"not null" json:"question_id"`
	CurrencyID     uint           `gorm:"not null" json:"currency_id"`
	Author         string         `json:"author"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	SentimentScore *float64       `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	FetchedAt      time.Time      `gorm:"autoCreateTime" json:"fetched_at"`
	Score          int            `json:"score"`
	NumComments    int            `json:"num_comments"`
	URL            string         `json:"url"`
	Metadata       datatypes.JSON `json:"metadata"`
}

// TableName specifies the table name for the RawMessage model.
func (RawMessage) TableName() string {
	return "raw_messages"
}
