package repository

import (
	"sort"
	"sync"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
)

// MemoryArticleRepository keeps the most recent records in memory when no database is configured
type MemoryArticleRepository struct {
	mu       sync.RWMutex
	records  []*models.ArticleRecord
	capacity int
}

func NewMemoryArticleRepository(capacity int) *MemoryArticleRepository {
	if capacity < 1 {
		capacity = 1000
	}
	return &MemoryArticleRepository{capacity: capacity}
}

func (r *MemoryArticleRepository) Create(record *models.ArticleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *record
	r.records = append(r.records, &copied)
	if len(r.records) > r.capacity {
		r.records = r.records[len(r.records)-r.capacity:]
	}
	return nil
}

func (r *MemoryArticleRepository) List(limit, offset int) ([]*models.ArticleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// records are appended in creation order
	newestFirst := make([]*models.ArticleRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		newestFirst = append(newestFirst, r.records[i])
	}

	if offset >= len(newestFirst) {
		return []*models.ArticleRecord{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(newestFirst) {
		end = len(newestFirst)
	}
	return newestFirst[offset:end], nil
}

func (r *MemoryArticleRepository) ListByGeneration(generationID string) ([]*models.ArticleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*models.ArticleRecord, 0)
	for _, record := range r.records {
		if record.GenerationID == generationID {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})
	return records, nil
}

func (r *MemoryArticleRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}
