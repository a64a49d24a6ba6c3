package settings

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Store must share
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Settings{}, empty)

	s := models.Settings{
		TitlePrompt:       "title",
		APIEndpoint:       "http://dify.local",
		WordpressUsername: "editor",
		SiteURL:           "https://example.com",
	}
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, store.Update(ctx, func(cur *models.Settings) {
		cur.Variable1 = "v1"
	}))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Variable1)
	assert.Equal(t, "title", got.TitlePrompt)

	// Snapshot is a copy
	got.TitlePrompt = "changed"
	again, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "title", again.TitlePrompt)
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, "test:settings")
	require.NoError(t, store.Ping(context.Background()))

	runStoreContract(t, store)
	assert.True(t, mr.Exists("test:settings"))
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, func(s *models.Settings) {
				s.Variable1 += "x"
			})
		}()
	}
	wg.Wait()

	got, _ := store.Get(ctx)
	assert.Len(t, got.Variable1, 50)
}

func TestSettings_ClearDefaults(t *testing.T) {
	defaults := models.UpstreamDefaults{
		TitlePrompt:   "dt",
		ContentPrompt: "dc",
		APIEndpoint:   "de",
		APIKey:        "dk",
	}
	s := models.Settings{
		TitlePrompt:   "dt",
		ContentPrompt: "custom",
		APIEndpoint:   "de",
		APIKey:        "dk",
		Variable1:     "dt",
	}

	s.ClearDefaults(defaults)

	assert.Empty(t, s.TitlePrompt)
	assert.Equal(t, "custom", s.ContentPrompt)
	assert.Empty(t, s.APIEndpoint)
	assert.Empty(t, s.APIKey)
	assert.Equal(t, "dt", s.Variable1)
}
