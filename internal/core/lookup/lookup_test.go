package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	recipes map[string]*common.Recipe
	err     error
	calls   int32
}

func (g *fakeGetter) GetRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.err != nil {
		return nil, g.err
	}
	r, ok := g.recipes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 2, TTL: time.Minute}
}

func TestStoreFetcher(t *testing.T) {
	ctx := context.Background()
	f := NewStoreFetcher(&fakeGetter{recipes: map[string]*common.Recipe{"r1": {ID: "r1", Title: "Soup"}}})

	r, err := f.FetchRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Soup", r.Title)

	_, err = f.FetchRecipe(ctx, "nope")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))

	broken := NewStoreFetcher(&fakeGetter{err: errors.New("db down")})
	_, err = broken.FetchRecipe(ctx, "r1")
	assert.True(t, errors.Is(err, common.ErrLookupFailed))
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()
	getter := &fakeGetter{recipes: map[string]*common.Recipe{"r1": {ID: "r1", Title: "Soup"}}}
	cache := NewMemoryCache(testCacheConfig())
	defer cache.Close()

	f := NewCachedFetcher(NewStoreFetcher(getter), cache)
	for i := 0; i < 3; i++ {
		r, err := f.FetchRecipe(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "Soup", r.Title)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&getter.calls))

	require.NoError(t, f.(*CachedFetcher).Invalidate(ctx, "r1"))
	_, err := f.FetchRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&getter.calls))

	_, err = f.FetchRecipe(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
}

func TestNewCachedFetcherWithoutCache(t *testing.T) {
	inner := NewStoreFetcher(&fakeGetter{})
	assert.Same(t, inner, NewCachedFetcher(inner, nil))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(testCacheConfig())
	defer cache.Close()
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx, "r1")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))

	require.NoError(t, cache.Set(ctx, "r1", &common.Recipe{ID: "r1", Title: "Soup"}))
	got, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	got.Title = "changed"

	again, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Soup", again.Title)

	// r2 未被讀取，容量滿時先淘汰
	require.NoError(t, cache.Set(ctx, "r2", &common.Recipe{ID: "r2"}))
	require.NoError(t, cache.Set(ctx, "r3", &common.Recipe{ID: "r3"}))
	_, err = cache.Get(ctx, "r2")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))
	_, err = cache.Get(ctx, "r1")
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, "r1")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))

	stats := cache.GetStats()
	assert.Equal(t, 2, stats["max_size"])
	assert.Greater(t, stats["evictions"].(int64), int64(0))
}

func TestRemoteFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recipes/r1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"title":"Soup","ingredients":[{"name":"Carrot","quantity":100,"unit":"g"}]}`))
		case "/recipes/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "/recipes/garbled":
			w.Write([]byte(`{not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	f := NewRemoteFetcher(config.LookupConfig{BaseURL: srv.URL, Timeout: time.Second})

	r, err := f.FetchRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, common.QuantityText("100"), r.Ingredients[0].Quantity)

	_, err = f.FetchRecipe(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))

	_, err = f.FetchRecipe(ctx, "broken")
	assert.True(t, errors.Is(err, common.ErrLookupFailed))

	_, err = f.FetchRecipe(ctx, "garbled")
	assert.True(t, errors.Is(err, common.ErrLookupFailed))
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, testCacheConfig(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Equal(t, "meal-planner:recipe:r1", cacheKey("r1"))
}
