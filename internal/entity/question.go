package entity

import "time"

// Question represents a tracked discussion topic. Query is the search
// fragment combined with a coin code; Text is the display template with a
// coin_name placeholder.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"unique;not null" json:"code"`
	Label     string    `gorm:"not null" json:"label"`
	Query     string    `gorm:"not null" json:"query"`
	Text      string    `json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Question model.
func (Question) TableName() string {
	return "questions"
}
