package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	backend "github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 5

// getter is satisfied by both *backend.Client and *backend.Tx
type getter interface {
	Get(ctx context.Context, key string) *backend.StringCmd
}

// RedisStore shares settings between proxy replicas through one Redis key
type RedisStore struct {
	client *backend.Client
	key    string
}

// NewRedisStore creates a store from connection parameters
func NewRedisStore(addr, password string, db int, key string) *RedisStore {
	return NewRedisStoreFromClient(backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), key)
}

// NewRedisStoreFromClient creates a store from an existing client
func NewRedisStoreFromClient(client *backend.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Ping checks the connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Get(ctx context.Context) (models.Settings, error) {
	return r.load(ctx, r.client)
}

func (r *RedisStore) Save(ctx context.Context, s models.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings to redis: %w", err)
	}
	return nil
}

// Update runs fn inside an optimistic WATCH transaction, retrying on conflicts
func (r *RedisStore) Update(ctx context.Context, fn func(*models.Settings)) error {
	txf := func(tx *backend.Tx) error {
		current, err := r.load(ctx, tx)
		if err != nil {
			return err
		}
		fn(&current)

		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.Set(ctx, r.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, r.key)
		if err == nil {
			return nil
		}
		if errors.Is(err, backend.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to update settings in redis: %w", err)
	}
	return fmt.Errorf("failed to update settings in redis: too many concurrent writers")
}

func (r *RedisStore) load(ctx context.Context, cmd getter) (models.Settings, error) {
	var s models.Settings
	val, err := cmd.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return s, nil
		}
		return s, fmt.Errorf("failed to get settings from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return s, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return s, nil
}
