package repository

import (
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"gorm.io/gorm"
)

// ArticleRepository stores the article history
type ArticleRepository interface {
	Create(record *models.ArticleRecord) error
	List(limit, offset int) ([]*models.ArticleRecord, error)
	ListByGeneration(generationID string) ([]*models.ArticleRecord, error)
	Count() (int64, error)
}

type GormArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// Create creates a new article record
func (r *GormArticleRepository) Create(record *models.ArticleRecord) error {
	return r.db.Create(record).Error
}

// List retrieves article records, newest first
func (r *GormArticleRepository) List(limit, offset int) ([]*models.ArticleRecord, error) {
	var records []*models.ArticleRecord
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

// ListByGeneration retrieves the articles of one generation call in keyword order
func (r *GormArticleRepository) ListByGeneration(generationID string) ([]*models.ArticleRecord, error) {
	var records []*models.ArticleRecord
	err := r.db.Where("generation_id = ?", generationID).
		Order("position ASC, created_at ASC").
		Find(&records).Error
	return records, err
}

// Count counts all article records
func (r *GormArticleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ArticleRecord{}).Count(&count).Error
	return count, err
}
