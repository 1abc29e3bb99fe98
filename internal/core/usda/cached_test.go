package usda

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"food-compare/internal/core/cache"
	"food-compare/internal/core/food"
	"food-compare/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu    sync.Mutex
	calls int
	foods []food.RawExternalFood
	err   error
}

func (s *countingSource) Search(ctx context.Context, query string) ([]food.RawExternalFood, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.foods, s.err
}

func newTestCache(t *testing.T) cache.Store {
	t.Helper()
	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCachedSourceHit(t *testing.T) {
	source := &countingSource{foods: []food.RawExternalFood{{ID: "1", Description: "Apple, raw"}}}
	cached := NewCachedSource(source, newTestCache(t), time.Minute)

	first, err := cached.Search(context.Background(), "Apple")
	require.NoError(t, err)
	second, err := cached.Search(context.Background(), "  apple ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	source := &countingSource{err: errors.New("boom")}
	cached := NewCachedSource(source, newTestCache(t), time.Minute)

	_, err := cached.Search(context.Background(), "apple")
	assert.Error(t, err)
	_, err = cached.Search(context.Background(), "apple")
	assert.Error(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedSourceDoesNotCacheEmpty(t *testing.T) {
	source := &countingSource{}
	cached := NewCachedSource(source, newTestCache(t), time.Minute)

	for i := 0; i < 2; i++ {
		foods, err := cached.Search(context.Background(), "zzz")
		require.NoError(t, err)
		assert.Empty(t, foods)
	}
	assert.Equal(t, 2, source.calls)
}

func TestNewCachedSourceWithoutStore(t *testing.T) {
	source := &countingSource{}
	assert.Same(t, source, NewCachedSource(source, nil, time.Minute))
}
