package settings

import (
	"context"
	"sync"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
)

// Store is the process-wide settings key-value service
type Store interface {
	// Get returns a snapshot of the current settings
	Get(ctx context.Context) (models.Settings, error)
	// Save replaces the settings
	Save(ctx context.Context, s models.Settings) error
	// Update applies fn to the current settings atomically
	Update(ctx context.Context, fn func(*models.Settings)) error
}

// MemoryStore keeps settings in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	settings models.Settings
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *MemoryStore) Save(ctx context.Context, s models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, fn func(*models.Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.settings)
	return nil
}
