package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore maps client idempotency keys to the booking they created.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = TTLIdempotency
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) Lookup(ctx context.Context, userID, key string) (string, bool, error) {
	id, err := s.rdb.Get(ctx, fmt.Sprintf(KeyIdemBookingCreate, userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup idempotency key: %w", err)
	}
	return id, true, nil
}

// Remember stores the mapping only if the key is still unused.
func (s *IdempotencyStore) Remember(ctx context.Context, userID, key, bookingID string) error {
	if err := s.rdb.SetNX(ctx, fmt.Sprintf(KeyIdemBookingCreate, userID, key), bookingID, s.ttl).Err(); err != nil {
		return fmt.Errorf("remember idempotency key: %w", err)
	}
	return nil
}
