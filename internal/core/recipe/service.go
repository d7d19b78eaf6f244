// Package recipe 食譜的建立、查詢與作者權限
package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 食譜的儲存需求
type Store interface {
	CreateRecipe(ctx context.Context, recipe *common.Recipe) error
	GetRecipe(ctx context.Context, id string) (*common.Recipe, error)
	ListRecipes(ctx context.Context, search string) ([]common.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *common.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}

// Invalidator 食譜變更後需要清除的快取
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// Service 食譜服務
type Service struct {
	store Store
	cache Invalidator
}

// NewService 創建新的食譜服務；cache 可為 nil
func NewService(store Store, cache Invalidator) *Service {
	return &Service{store: store, cache: cache}
}

// List 列出食譜，search 以標題做不分大小寫比對
func (s *Service) List(ctx context.Context, search string) ([]common.Recipe, error) {
	return s.store.ListRecipes(ctx, strings.TrimSpace(search))
}

// Get 取得單一食譜
func (s *Service) Get(ctx context.Context, id string) (*common.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return recipe, nil
}

// Create 建立食譜，作者為目前使用者
func (s *Service) Create(ctx context.Context, authorID string, recipe *common.Recipe) (*common.Recipe, error) {
	if err := validate(recipe); err != nil {
		return nil, err
	}
	recipe.ID = ""
	recipe.AuthorID = authorID
	prepareIngredients(recipe)

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	common.LogInfo("食譜已建立",
		zap.String("recipe_id", recipe.ID),
		zap.String("author_id", authorID),
		zap.Int("ingredients", len(recipe.Ingredients)),
	)
	return recipe, nil
}

// Update 更新食譜，只有作者可以修改
func (s *Service) Update(ctx context.Context, id, userID string, recipe *common.Recipe) (*common.Recipe, error) {
	if err := validate(recipe); err != nil {
		return nil, err
	}
	current, err := s.authorize(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	recipe.ID = current.ID
	recipe.AuthorID = current.AuthorID
	prepareIngredients(recipe)

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, notFound(err)
	}
	s.invalidate(ctx, id)
	return recipe, nil
}

// Delete 刪除食譜，只有作者可以刪除
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return notFound(err)
	}
	s.invalidate(ctx, id)

	common.LogInfo("食譜已刪除",
		zap.String("recipe_id", id),
		zap.String("user_id", userID),
	)
	return nil
}

// IngredientNames 所有食譜中出現過的食材名稱，去重後排序
func (s *Service) IngredientNames(ctx context.Context) ([]string, error) {
	recipes, err := s.store.ListRecipes(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	names := []string{}
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Service) authorize(ctx context.Context, id, userID string) (*common.Recipe, error) {
	current, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if current.AuthorID != userID {
		return nil, common.ErrForbidden.WithMessage("only the author can modify this recipe")
	}
	return current, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		common.LogWarn("清除食譜快取失敗",
			zap.String("recipe_id", id),
			zap.Error(err),
		)
	}
}

func validate(recipe *common.Recipe) error {
	if recipe == nil {
		return common.NewValidationError("recipe is required")
	}
	if strings.TrimSpace(recipe.Title) == "" {
		return common.NewValidationError("title is required")
	}
	for i, ing := range recipe.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return common.NewValidationError(fmt.Sprintf("ingredients[%d].name is required", i))
		}
	}
	return nil
}

func prepareIngredients(recipe *common.Recipe) {
	if recipe.Ingredients == nil {
		recipe.Ingredients = []common.Ingredient{}
	}
	for i := range recipe.Ingredients {
		if recipe.Ingredients[i].ID == "" {
			recipe.Ingredients[i].ID = common.GenerateUUID()
		}
	}
}

func notFound(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrRecipeNotFound.Wrap(err)
	}
	return err
}
