// Package grocery 由餐點規劃彙整出採買清單
package grocery

import (
	"sort"
	"strings"

	"meal-planner/internal/core/quantity"
	"meal-planner/internal/pkg/common"
)

const keySeparator = "::"

// emptyQuantityMark 原始數量為空時的出處佔位
const emptyQuantityMark = "—"

// Entry 同名同單位的彙總結果
type Entry struct {
	Name       string   `json:"name"`
	Magnitude  *float64 `json:"qty,omitempty"`
	Unit       string   `json:"unit"`
	Provenance []string `json:"entries"`
}

// Aggregate 以 "name::unit" 為鍵
type Aggregate map[string]*Entry

// Key 組合彙總鍵
func Key(name, unit string) string {
	return name + keySeparator + unit
}

// SplitKey 拆回名稱與單位；名稱本身可能含有分隔符號，以最後一個為準
func SplitKey(key string) (name, unit string) {
	i := strings.LastIndex(key, keySeparator)
	if i < 0 {
		return key, ""
	}
	return key[:i], key[i+len(keySeparator):]
}

// Keys 排序後的鍵
func (a Aggregate) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AggregateMeals 將餐點中引用的食譜食材依份數縮放、正規化後合併
// 找不到的食譜直接略過
func AggregateMeals(meals []common.Meal, recipesByID map[string]*common.Recipe) Aggregate {
	agg := make(Aggregate)

	for _, meal := range meals {
		for _, item := range meal.Items {
			if item.RecipeID == "" {
				continue
			}
			recipe, ok := recipesByID[item.RecipeID]
			if !ok || recipe == nil {
				continue
			}
			servings := item.EffectiveServings()
			for _, ing := range recipe.Ingredients {
				agg.add(recipe.Title, servings, ing)
			}
		}
	}

	return agg
}

func (a Aggregate) add(title string, servings float64, ing common.Ingredient) {
	raw := ing.Quantity.String()

	var norm quantity.Normalized
	if parsed, ok := quantity.Parse(raw); ok {
		unitText := parsed.UnitText
		// 已正規化的食材把單位另外存在 unit 欄位
		if unitText == "" {
			unitText = ing.Unit
		}
		norm = quantity.NormalizeValue(parsed.Magnitude*servings, unitText)
	} else {
		norm = quantity.Normalize(nil, "")
	}

	key := Key(ing.Name, norm.Unit)
	entry, ok := a[key]
	if !ok {
		entry = &Entry{Name: ing.Name, Unit: norm.Unit, Provenance: []string{}}
		a[key] = entry
	}

	if norm.Magnitude != nil {
		sum := *norm.Magnitude
		if entry.Magnitude != nil {
			sum += *entry.Magnitude
		}
		entry.Magnitude = &sum
	}

	if strings.TrimSpace(raw) == "" {
		raw = emptyQuantityMark
	}
	entry.Provenance = append(entry.Provenance, title+" ×"+common.FormatNumber(servings)+": "+raw)
}
