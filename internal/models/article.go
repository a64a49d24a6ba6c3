package models

import (
	"time"
)

// Publish states recorded for each article
const (
	PublishStatusSkipped   = "skipped"
	PublishStatusPublished = "published"
	PublishStatusFailed    = "failed"
)

// ArticleRecord is the history entry kept for every article relayed downstream
type ArticleRecord struct {
	// Primary key
	ID string `json:"id" gorm:"primaryKey;type:uuid"`

	// Generation call that produced this article
	GenerationID string `json:"generation_id" gorm:"type:uuid;not null;index" example:"550e8400-e29b-41d4-a716-446655440000"`
	Keyword      string `json:"keyword" gorm:"type:varchar(255);not null;index" example:"猫"`
	Position     int    `json:"position" example:"1"`

	// Article
	Title   string `json:"title" gorm:"type:text;not null" example:"猫 - 1"`
	Content string `json:"content" gorm:"type:text"`
	Format  string `json:"format" gorm:"type:varchar(50);index" example:"draft"`

	// Publishing
	PublishStatus string `json:"publish_status" gorm:"type:varchar(20);index" example:"published"` // "skipped", "published", "failed"
	PublishError  string `json:"publish_error,omitempty" gorm:"type:text"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the ArticleRecord model
func (ArticleRecord) TableName() string {
	return "article_records"
}
