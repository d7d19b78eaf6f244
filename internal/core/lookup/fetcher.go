// Package lookup 提供採買清單產生時使用的食譜查詢來源
package lookup

import (
	"context"
	"errors"
	"time"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Fetcher 依 ID 取得食譜；失敗只影響該食譜
type Fetcher interface {
	FetchRecipe(ctx context.Context, id string) (*common.Recipe, error)
}

// RecipeGetter 儲存層中查詢食譜的部分
type RecipeGetter interface {
	GetRecipe(ctx context.Context, id string) (*common.Recipe, error)
}

// StoreFetcher 直接從本地儲存層讀取食譜
type StoreFetcher struct {
	store RecipeGetter
}

// NewStoreFetcher 創建本地查詢
func NewStoreFetcher(store RecipeGetter) *StoreFetcher {
	return &StoreFetcher{store: store}
}

// FetchRecipe 實作 Fetcher
func (f *StoreFetcher) FetchRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	recipe, err := f.store.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrRecipeNotFound.Wrap(err)
		}
		return nil, common.ErrLookupFailed.Wrap(err)
	}
	return recipe, nil
}

// Cache 食譜快取
type Cache interface {
	Get(ctx context.Context, id string) (*common.Recipe, error)
	Set(ctx context.Context, id string, recipe *common.Recipe) error
	Invalidate(ctx context.Context, id string) error
	Close() error
}

// CachedFetcher 先查快取，未命中再查來源並回填
type CachedFetcher struct {
	next  Fetcher
	cache Cache
}

// NewCachedFetcher 創建帶快取的查詢；cache 為 nil 時直接回傳 next
func NewCachedFetcher(next Fetcher, cache Cache) Fetcher {
	if cache == nil {
		return next
	}
	return &CachedFetcher{next: next, cache: cache}
}

// FetchRecipe 實作 Fetcher
func (f *CachedFetcher) FetchRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	start := time.Now()
	if recipe, err := f.cache.Get(ctx, id); err == nil && recipe != nil {
		common.LogCacheHit("recipe", id)
		return recipe, nil
	} else if err != nil && !errors.Is(err, common.ErrCacheMiss) {
		common.LogWarn("快取讀取失敗，改查來源",
			zap.String("recipe_id", id),
			zap.Error(err),
		)
	} else {
		common.LogCacheMiss("recipe", id)
	}

	recipe, err := f.next.FetchRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, id, recipe); err != nil {
		common.LogWarn("快取寫入失敗",
			zap.String("recipe_id", id),
			zap.Error(err),
		)
	}
	common.LogDebug("食譜已回填快取",
		zap.String("recipe_id", id),
		zap.Duration("耗時", time.Since(start)),
	)
	return recipe, nil
}

// Invalidate 食譜更新或刪除後清除快取
func (f *CachedFetcher) Invalidate(ctx context.Context, id string) error {
	return f.cache.Invalidate(ctx, id)
}
