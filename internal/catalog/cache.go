package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const (
	keyVehicle  = "catalog:vehicle:%s"
	keyServices = "catalog:services:%s"
)

// CachedLookup serves descriptions from Redis and falls back to next on a miss.
// Redis failures are logged and treated as misses.
type CachedLookup struct {
	next   Lookup
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedLookup(next Lookup, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLookup{next: next, rdb: rdb, ttl: ttl, logger: logger.With("component", "catalog")}
}

func (l *CachedLookup) DescribeVehicle(ctx context.Context, vehicleID string) (string, error) {
	if vehicleID == "" {
		return l.next.DescribeVehicle(ctx, vehicleID)
	}
	return l.cached(ctx, fmt.Sprintf(keyVehicle, vehicleID), func() (string, error) {
		return l.next.DescribeVehicle(ctx, vehicleID)
	})
}

func (l *CachedLookup) DescribeServices(ctx context.Context, serviceIDs []string) (string, error) {
	if len(serviceIDs) == 0 {
		return l.next.DescribeServices(ctx, serviceIDs)
	}
	return l.cached(ctx, fmt.Sprintf(keyServices, ServiceSetKey(serviceIDs)), func() (string, error) {
		return l.next.DescribeServices(ctx, serviceIDs)
	})
}

func (l *CachedLookup) cached(ctx context.Context, key string, load func() (string, error)) (string, error) {
	val, err := l.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return val, nil
	case !errors.Is(err, redis.Nil):
		l.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	val, err = load()
	if err != nil {
		return "", err
	}

	if err := l.rdb.Set(ctx, key, val, l.ttl).Err(); err != nil {
		l.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return val, nil
}

// ServiceSetKey hashes an ordered id list into a fixed-size cache key component.
func ServiceSetKey(serviceIDs []string) string {
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(serviceIDs, ",")), 16)
}
