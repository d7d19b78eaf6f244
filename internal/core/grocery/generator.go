package grocery

import (
	"context"
	"time"

	"meal-planner/internal/core/lookup"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Generator 取得期間內餐點引用的食譜並彙整食材
type Generator struct {
	fetcher     lookup.Fetcher
	concurrency int
}

// NewGenerator 創建產生器；concurrency <= 0 表示不限制同時查詢數
func NewGenerator(fetcher lookup.Fetcher, concurrency int) *Generator {
	return &Generator{fetcher: fetcher, concurrency: concurrency}
}

// Generate 篩選期間內的餐點，並行查詢所有食譜後彙整
// 單一食譜查詢失敗只記錄並略過，不影響其他食譜
func (g *Generator) Generate(ctx context.Context, meals []common.Meal, period common.Period) (Aggregate, error) {
	start := time.Now()

	selected := FilterMeals(meals, period)
	ids := RecipeIDs(selected)

	// 每個食譜一個結果槽，無需加鎖
	results := make([]*common.Recipe, len(ids))

	// errgroup 只用來限制同時查詢數，個別錯誤不回傳
	var eg errgroup.Group
	if g.concurrency > 0 {
		eg.SetLimit(g.concurrency)
	}
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			began := time.Now()
			recipe, err := g.fetcher.FetchRecipe(ctx, id)
			common.LogLookup(id, time.Since(began), err)
			if err == nil {
				results[i] = recipe
			}
			return nil
		})
	}
	eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipesByID := make(map[string]*common.Recipe, len(ids))
	for i, id := range ids {
		if results[i] != nil {
			recipesByID[id] = results[i]
		}
	}

	agg := AggregateMeals(selected, recipesByID)

	common.LogInfo("採買清單已產生",
		zap.String("period_start", period.Start),
		zap.String("period_end", period.End),
		zap.Int("meals", len(selected)),
		zap.Int("recipes", len(ids)),
		zap.Int("resolved", len(recipesByID)),
		zap.Int("items", len(agg)),
		zap.Duration("耗時", time.Since(start)),
	)

	return agg, nil
}

// FilterMeals 保留日期落在期間內（含頭尾）的餐點
func FilterMeals(meals []common.Meal, period common.Period) []common.Meal {
	out := make([]common.Meal, 0, len(meals))
	for _, m := range meals {
		if common.InPeriod(m.Date, period.Start, period.End) {
			out = append(out, m)
		}
	}
	return out
}

// RecipeIDs 依出現順序列出不重複的食譜 ID
func RecipeIDs(meals []common.Meal) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range meals {
		for _, it := range m.Items {
			if it.RecipeID == "" {
				continue
			}
			if _, ok := seen[it.RecipeID]; ok {
				continue
			}
			seen[it.RecipeID] = struct{}{}
			ids = append(ids, it.RecipeID)
		}
	}
	return ids
}
