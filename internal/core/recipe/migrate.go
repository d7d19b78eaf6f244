package recipe

import (
	"context"
	"fmt"

	"meal-planner/internal/core/quantity"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// MigrationResult 食材正規化的結果
type MigrationResult struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
}

// NormalizeIngredients 把文字數量改寫為正規化後的數值與單位，回傳是否有變動
// 數量文字沒有單位時改用既有的 unit；無法解析的食材保持原樣
func NormalizeIngredients(recipe *common.Recipe) bool {
	changed := false
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		parsed, ok := quantity.Parse(ing.Quantity.String())
		if !ok {
			continue
		}
		unitText := parsed.UnitText
		if unitText == "" {
			unitText = ing.Unit
		}
		n := quantity.NormalizeValue(parsed.Magnitude, unitText)
		q := common.QuantityText(common.FormatNumber(*n.Magnitude))
		if q == ing.Quantity && n.Unit == ing.Unit {
			continue
		}
		ing.Quantity = q
		ing.Unit = n.Unit
		changed = true
	}
	return changed
}

// MigrateIngredients 走訪所有食譜並正規化食材；dryRun 時只計算不寫入
func (s *Service) MigrateIngredients(ctx context.Context, dryRun bool) (MigrationResult, error) {
	var result MigrationResult

	recipes, err := s.store.ListRecipes(ctx, "")
	if err != nil {
		return result, fmt.Errorf("failed to list recipes: %w", err)
	}

	for i := range recipes {
		r := &recipes[i]
		result.Scanned++
		if !NormalizeIngredients(r) {
			continue
		}
		result.Changed++
		if dryRun {
			common.LogInfo("將更新食譜", zap.String("recipe_id", r.ID), zap.String("title", r.Title))
			continue
		}
		if err := s.store.UpdateRecipe(ctx, r); err != nil {
			return result, fmt.Errorf("failed to update recipe %s: %w", r.ID, err)
		}
		s.invalidate(ctx, r.ID)
	}

	common.LogInfo("食材正規化完成",
		zap.Int("scanned", result.Scanned),
		zap.Int("changed", result.Changed),
		zap.Bool("dry_run", dryRun),
	)
	return result, nil
}
