// Package storage 定義食譜、餐點、採買清單的持久化介面與實作
package storage

import (
	"context"
	"fmt"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// RecipeStore 食譜資料操作
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *common.Recipe) error
	GetRecipe(ctx context.Context, id string) (*common.Recipe, error)
	// ListRecipes search 非空時以標題做不分大小寫的子字串比對
	ListRecipes(ctx context.Context, search string) ([]common.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *common.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}

// MealStore 餐點資料操作，皆以使用者為範圍
type MealStore interface {
	CreateMeal(ctx context.Context, meal *common.Meal) error
	GetMeal(ctx context.Context, id, userID string) (*common.Meal, error)
	ListMeals(ctx context.Context, userID string, period common.Period) ([]common.Meal, error)
	UpdateMeal(ctx context.Context, meal *common.Meal) error
	DeleteMeal(ctx context.Context, id, userID string) error
}

// GroceryStore 採買清單資料操作，皆以使用者為範圍
type GroceryStore interface {
	CreateGroceryList(ctx context.Context, list *common.GroceryList) error
	GetGroceryList(ctx context.Context, id, userID string) (*common.GroceryList, error)
	ListGroceryLists(ctx context.Context, userID string) ([]common.GroceryList, error)
	UpdateGroceryItems(ctx context.Context, id, userID string, items []common.GroceryItem) error
	DeleteGroceryList(ctx context.Context, id, userID string) error
}

// Store 完整的儲存層
type Store interface {
	RecipeStore
	MealStore
	GroceryStore
	Ping(ctx context.Context) error
	Close() error
}

// New 依設定建立儲存層
func New(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres", "sqlite3":
		return NewSQLStore(cfg.Driver, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// notFound 建立帶有資源描述的 not found 錯誤
func notFound(kind, id string) error {
	return common.ErrNotFound.WithMessage(fmt.Sprintf("%s %s not found", kind, id))
}
