package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/services"
	redis_utils "github.com/Jshatto/asset-tracker/src/utils/redis"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonMap mimics the Redis handler: values are stored as JSON.
type jsonMap struct {
	values map[string][]byte
	ttl    map[string]time.Duration
	err    error
}

func newJSONMap() *jsonMap {
	return &jsonMap{values: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *jsonMap) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = data
	m.ttl[key] = expiration
	return nil
}

func (m *jsonMap) Get(_ context.Context, key string, result interface{}) error {
	if m.err != nil {
		return m.err
	}
	data, ok := m.values[key]
	if !ok {
		return fmt.Errorf("%w: %s", redis_utils.ErrKeyNotFound, key)
	}
	return json.Unmarshal(data, result)
}

func TestRedisRunStatusStore(t *testing.T) {
	ctx := context.Background()
	backend := newJSONMap()
	store := services.NewRedisRunStatusStore(backend)

	_, err := store.LastRun(ctx)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	summary := &schemas.RecomputeSummary{
		RunID:     uuid.New(),
		Today:     "2026-10-15",
		Processed: 4,
		Updated:   3,
		Failed:    1,
		Failures:  []schemas.RecomputeFailure{{AssetID: uuid.New(), Kind: "invalid_asset", Message: "unsupported"}},
	}
	require.NoError(t, store.SaveLastRun(ctx, summary))
	for _, ttl := range backend.ttl {
		assert.Greater(t, ttl, time.Duration(0))
	}

	got, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, got.RunID)
	assert.Equal(t, 3, got.Updated)
	require.Len(t, got.Failures, 1)

	backend.err = errors.New("i/o timeout")
	_, err = store.LastRun(ctx)
	assert.True(t, apperrors.Is(err, apperrors.KindPersistence))
}

func TestCacheRunStatusStore(t *testing.T) {
	ctx := context.Background()
	store := services.NewCacheRunStatusStore()

	summary := &schemas.RecomputeSummary{RunID: uuid.New(), Processed: 2}
	require.NoError(t, store.SaveLastRun(ctx, summary))

	got, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, got.RunID)
}
