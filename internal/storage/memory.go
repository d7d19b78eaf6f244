package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"meal-planner/internal/pkg/common"
)

// MemoryStore 記憶體儲存，重啟後資料消失
type MemoryStore struct {
	mu        sync.RWMutex
	recipes   map[string]common.Recipe
	meals     map[string]common.Meal
	groceries map[string]common.GroceryList
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes:   make(map[string]common.Recipe),
		meals:     make(map[string]common.Meal),
		groceries: make(map[string]common.GroceryList),
	}
}

// CreateRecipe 新增食譜
func (s *MemoryStore) CreateRecipe(ctx context.Context, recipe *common.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = common.GenerateUUID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.recipes[recipe.ID]; exists {
		return common.ErrConflict.WithMessage("recipe " + recipe.ID + " already exists")
	}
	s.recipes[recipe.ID] = cloneRecipe(*recipe)
	return nil
}

// GetRecipe 取得食譜
func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, notFound("recipe", id)
	}
	out := cloneRecipe(r)
	return &out, nil
}

// ListRecipes 列出食譜，依標題排序
func (s *MemoryStore) ListRecipes(ctx context.Context, search string) ([]common.Recipe, error) {
	needle := strings.ToLower(search)
	s.mu.RLock()
	out := make([]common.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if needle != "" && !strings.Contains(strings.ToLower(r.Title), needle) {
			continue
		}
		out = append(out, cloneRecipe(r))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateRecipe 更新食譜
func (s *MemoryStore) UpdateRecipe(ctx context.Context, recipe *common.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[recipe.ID]; !ok {
		return notFound("recipe", recipe.ID)
	}
	s.recipes[recipe.ID] = cloneRecipe(*recipe)
	return nil
}

// DeleteRecipe 刪除食譜
func (s *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[id]; !ok {
		return notFound("recipe", id)
	}
	delete(s.recipes, id)
	return nil
}

// CreateMeal 新增餐點
func (s *MemoryStore) CreateMeal(ctx context.Context, meal *common.Meal) error {
	if meal.ID == "" {
		meal.ID = common.GenerateUUID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals[meal.ID] = cloneMeal(*meal)
	return nil
}

// GetMeal 取得使用者的餐點
func (s *MemoryStore) GetMeal(ctx context.Context, id, userID string) (*common.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meals[id]
	if !ok || m.UserID != userID {
		return nil, notFound("meal", id)
	}
	out := cloneMeal(m)
	return &out, nil
}

// ListMeals 列出使用者在區間內的餐點，依日期排序
func (s *MemoryStore) ListMeals(ctx context.Context, userID string, period common.Period) ([]common.Meal, error) {
	s.mu.RLock()
	out := make([]common.Meal, 0)
	for _, m := range s.meals {
		if m.UserID != userID || !common.InPeriod(m.Date, period.Start, period.End) {
			continue
		}
		out = append(out, cloneMeal(m))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateMeal 更新餐點
func (s *MemoryStore) UpdateMeal(ctx context.Context, meal *common.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.meals[meal.ID]
	if !ok || existing.UserID != meal.UserID {
		return notFound("meal", meal.ID)
	}
	s.meals[meal.ID] = cloneMeal(*meal)
	return nil
}

// DeleteMeal 刪除餐點
func (s *MemoryStore) DeleteMeal(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meals[id]
	if !ok || m.UserID != userID {
		return notFound("meal", id)
	}
	delete(s.meals, id)
	return nil
}

// CreateGroceryList 新增採買清單
func (s *MemoryStore) CreateGroceryList(ctx context.Context, list *common.GroceryList) error {
	if list.ID == "" {
		list.ID = common.GenerateUUID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groceries[list.ID] = cloneGroceryList(*list)
	return nil
}

// GetGroceryList 取得使用者的採買清單
func (s *MemoryStore) GetGroceryList(ctx context.Context, id, userID string) (*common.GroceryList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groceries[id]
	if !ok || g.UserID != userID {
		return nil, notFound("grocery list", id)
	}
	out := cloneGroceryList(g)
	return &out, nil
}

// ListGroceryLists 列出使用者的採買清單，新的在前
func (s *MemoryStore) ListGroceryLists(ctx context.Context, userID string) ([]common.GroceryList, error) {
	s.mu.RLock()
	out := make([]common.GroceryList, 0)
	for _, g := range s.groceries {
		if g.UserID == userID {
			out = append(out, cloneGroceryList(g))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateGroceryItems 覆寫清單項目
func (s *MemoryStore) UpdateGroceryItems(ctx context.Context, id, userID string, items []common.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groceries[id]
	if !ok || g.UserID != userID {
		return notFound("grocery list", id)
	}
	g.Items = cloneGroceryItems(items)
	s.groceries[id] = g
	return nil
}

// DeleteGroceryList 刪除採買清單
func (s *MemoryStore) DeleteGroceryList(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groceries[id]
	if !ok || g.UserID != userID {
		return notFound("grocery list", id)
	}
	delete(s.groceries, id)
	return nil
}

// Ping 記憶體儲存永遠可用
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close 清空資料
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = make(map[string]common.Recipe)
	s.meals = make(map[string]common.Meal)
	s.groceries = make(map[string]common.GroceryList)
	return nil
}

func cloneRecipe(r common.Recipe) common.Recipe {
	r.Ingredients = append([]common.Ingredient(nil), r.Ingredients...)
	if r.PrepTime != nil {
		v := *r.PrepTime
		r.PrepTime = &v
	}
	if r.CookTime != nil {
		v := *r.CookTime
		r.CookTime = &v
	}
	return r
}

func cloneMeal(m common.Meal) common.Meal {
	m.Items = append([]common.MealItem(nil), m.Items...)
	return m
}

func cloneGroceryList(g common.GroceryList) common.GroceryList {
	g.Items = cloneGroceryItems(g.Items)
	return g
}

func cloneGroceryItems(items []common.GroceryItem) []common.GroceryItem {
	if items == nil {
		return nil
	}
	out := make([]common.GroceryItem, len(items))
	for i, it := range items {
		if it.Qty != nil {
			v := *it.Qty
			it.Qty = &v
		}
		it.Entries = append(make([]string, 0, len(it.Entries)), it.Entries...)
		out[i] = it
	}
	return out
}
