// Package meal 使用者的每日餐點規劃
package meal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/pkg/common"
)

// Store 餐點的儲存需求
type Store interface {
	CreateMeal(ctx context.Context, meal *common.Meal) error
	GetMeal(ctx context.Context, id, userID string) (*common.Meal, error)
	ListMeals(ctx context.Context, userID string, period common.Period) ([]common.Meal, error)
	UpdateMeal(ctx context.Context, meal *common.Meal) error
	DeleteMeal(ctx context.Context, id, userID string) error
}

const dateLayout = "2006-01-02"

var errMealNotFound = common.ErrNotFound.WithMessage("Meal not found")

// Service 餐點服務
type Service struct {
	store Store
}

// NewService 創建餐點服務
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List 列出使用者在期間內的餐點
func (s *Service) List(ctx context.Context, userID string, period common.Period) ([]common.Meal, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.store.ListMeals(ctx, userID, period)
}

// Get 讀取單一餐點
func (s *Service) Get(ctx context.Context, id, userID string) (*common.Meal, error) {
	m, err := s.store.GetMeal(ctx, id, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return m, nil
}

// Create 建立餐點
func (s *Service) Create(ctx context.Context, userID string, m *common.Meal) (*common.Meal, error) {
	if err := validate(m); err != nil {
		return nil, err
	}
	m.ID = ""
	m.UserID = userID
	if m.Items == nil {
		m.Items = []common.MealItem{}
	}
	if err := s.store.CreateMeal(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	return m, nil
}

// Update 更新餐點
func (s *Service) Update(ctx context.Context, id, userID string, m *common.Meal) (*common.Meal, error) {
	if err := validate(m); err != nil {
		return nil, err
	}
	m.ID = id
	m.UserID = userID
	if m.Items == nil {
		m.Items = []common.MealItem{}
	}
	if err := s.store.UpdateMeal(ctx, m); err != nil {
		return nil, mapNotFound(err)
	}
	return m, nil
}

// Delete 刪除餐點
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.store.DeleteMeal(ctx, id, userID); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func validate(m *common.Meal) error {
	if m == nil {
		return common.NewValidationError("meal is required")
	}
	if _, err := time.Parse(dateLayout, m.Date); err != nil {
		return common.NewValidationError("date must be YYYY-MM-DD")
	}
	for i, it := range m.Items {
		if it.Servings != nil && *it.Servings < 0 {
			return common.NewValidationError(fmt.Sprintf("items[%d].servings must not be negative", i))
		}
	}
	return nil
}

// validatePeriod 期間的頭尾可省略，有值時必須是 ISO 日期
func validatePeriod(p common.Period) error {
	for _, d := range []string{p.Start, p.End} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return common.NewValidationError("period dates must be YYYY-MM-DD")
		}
	}
	if p.Start != "" && p.End != "" && p.Start > p.End {
		return common.NewValidationError("period start must not be after end")
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return errMealNotFound
	}
	return err
}
