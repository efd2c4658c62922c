package services

import (
	"context"
	"errors"
	"time"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/utils"
	redis_utils "github.com/Jshatto/asset-tracker/src/utils/redis"
)

const (
	lastRunKey       = "asset-tracker:depreciation:last-run"
	lastRunRetention = 30 * 24 * time.Hour
)

func errNoRun() error {
	return apperrors.NotFound("no recompute run recorded")
}

// RunStatusStore keeps the summary of the latest recompute run so it can be
// inspected after the fact.
type RunStatusStore interface {
	SaveLastRun(ctx context.Context, summary *schemas.RecomputeSummary) error
	LastRun(ctx context.Context) (*schemas.RecomputeSummary, error)
}

// CacheRunStatusStore keeps the summary in process memory.
type CacheRunStatusStore struct {
	cache *utils.Cache[schemas.RecomputeSummary]
}

func NewCacheRunStatusStore() *CacheRunStatusStore {
	return &CacheRunStatusStore{cache: utils.NewCache[schemas.RecomputeSummary]()}
}

func (s *CacheRunStatusStore) SaveLastRun(_ context.Context, summary *schemas.RecomputeSummary) error {
	s.cache.Set(*summary, lastRunRetention)
	return nil
}

func (s *CacheRunStatusStore) LastRun(_ context.Context) (*schemas.RecomputeSummary, error) {
	summary, ok := s.cache.Get(time.Now())
	if !ok {
		return nil, errNoRun()
	}
	return &summary, nil
}

// JSONStore is the part of the Redis handler the run status needs.
type JSONStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, result interface{}) error
}

// RedisRunStatusStore shares the summary between worker replicas and the API.
type RedisRunStatusStore struct {
	store JSONStore
}

func NewRedisRunStatusStore(store JSONStore) *RedisRunStatusStore {
	return &RedisRunStatusStore{store: store}
}

func (s *RedisRunStatusStore) SaveLastRun(ctx context.Context, summary *schemas.RecomputeSummary) error {
	return s.store.Set(ctx, lastRunKey, summary, lastRunRetention)
}

func (s *RedisRunStatusStore) LastRun(ctx context.Context) (*schemas.RecomputeSummary, error) {
	var summary schemas.RecomputeSummary
	if err := s.store.Get(ctx, lastRunKey, &summary); err != nil {
		if errors.Is(err, redis_utils.ErrKeyNotFound) {
			return nil, errNoRun()
		}
		return nil, apperrors.Persistence("failed to read recompute run status", err)
	}
	return &summary, nil
}
