package entity

import "time"

// AggregatedSentiment is the weighted sentiment of one coin over one
// five-minute window. Duplicate (coin_id, window_start) inserts are noops.
type AggregatedSentiment struct {
	CoinID         uint      `gorm:"primaryKey;autoIncrement:false" json:"coin_id"`
	WindowStart    time.Time `gorm:"primaryKey" json:"window_start"`
	SentimentScore float64   `gorm:"not null" json:"sentiment_score"`
}

// TableName specifies the table name for the AggregatedSentiment model.
func (AggregatedSentiment) TableName() string {
	return "aggregated_sentiments"
}
