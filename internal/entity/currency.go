package entity

import "time"

// Currency represents a tracked coin and the forum it is sourced from.
type Currency struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"unique;not null" json:"code"`
	Name      string    `json:"name"`
	Subreddit string    `gorm:"not null" json:"subreddit"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Currency model.
func (Currency) TableName() string {
	return "currencies"
}
