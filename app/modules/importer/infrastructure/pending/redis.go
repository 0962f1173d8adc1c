package importpending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "raid-challenge:import:pending:"

// RedisStore keeps pending batches in redis with a TTL so an abandoned
// import simply expires.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id uuid.UUID) string { return keyPrefix + id.String() }

func (s *RedisStore) Save(ctx context.Context, batch *importdomain.PendingBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode pending batch: %w", err)
	}
	if err := s.client.Set(ctx, key(batch.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending batch: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*importdomain.PendingBatch, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, importdomain.ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending batch: %w", err)
	}
	var batch importdomain.PendingBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode pending batch: %w", err)
	}
	return &batch, nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending batch: %w", err)
	}
	return nil
}
