package grocery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/core/quantity"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// ListStore 採買清單的儲存需求
type ListStore interface {
	CreateGroceryList(ctx context.Context, list *common.GroceryList) error
	GetGroceryList(ctx context.Context, id, userID string) (*common.GroceryList, error)
	ListGroceryLists(ctx context.Context, userID string) ([]common.GroceryList, error)
	UpdateGroceryItems(ctx context.Context, id, userID string, items []common.GroceryItem) error
	DeleteGroceryList(ctx context.Context, id, userID string) error
}

// MealLister 取得使用者期間內的餐點
type MealLister interface {
	ListMeals(ctx context.Context, userID string, period common.Period) ([]common.Meal, error)
}

var (
	errListAccess = common.ErrAccessDenied.WithMessage("Grocery list not found or access denied")
	errItemAccess = common.ErrAccessDenied.WithMessage("Item not found in grocery list")
)

// Service 採買清單服務
type Service struct {
	lists     ListStore
	meals     MealLister
	generator *Generator
	now       func() time.Time
}

// NewService 創建採買清單服務
func NewService(lists ListStore, meals MealLister, generator *Generator) *Service {
	return &Service{
		lists:     lists,
		meals:     meals,
		generator: generator,
		now:       time.Now,
	}
}

// Preview 依使用者的餐點產生彙整結果，不寫入
func (s *Service) Preview(ctx context.Context, userID string, period common.Period) (Aggregate, error) {
	if period.Start != "" && period.End != "" && period.Start > period.End {
		return nil, common.NewValidationError("period_start must not be after period_end")
	}
	meals, err := s.meals.ListMeals(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return s.generator.Generate(ctx, meals, period)
}

// FromAggregate 把彙整結果轉成採買清單，依鍵排序
func FromAggregate(agg Aggregate, period common.Period) *common.GroceryList {
	list := &common.GroceryList{
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Title:       DefaultTitle(period),
		Items:       make([]common.GroceryItem, 0, len(agg)),
	}
	for _, key := range agg.Keys() {
		e := agg[key]
		name, unit := SplitKey(key)
		item := common.GroceryItem{
			Name:    name,
			Unit:    unit,
			Entries: append([]string{}, e.Provenance...),
		}
		if e.Magnitude != nil {
			v := *e.Magnitude
			item.Qty = &v
		}
		list.Items = append(list.Items, item)
	}
	return list
}

// DefaultTitle 清單預設標題
func DefaultTitle(period common.Period) string {
	return fmt.Sprintf("Grocery %s — %s", period.Start, period.End)
}

// List 列出使用者的清單
func (s *Service) List(ctx context.Context, userID string) ([]common.GroceryList, error) {
	return s.lists.ListGroceryLists(ctx, userID)
}

// Get 讀取單一清單
func (s *Service) Get(ctx context.Context, id, userID string) (*common.GroceryList, error) {
	list, err := s.lists.GetGroceryList(ctx, id, userID)
	if err != nil {
		return nil, accessError(err, errListAccess)
	}
	return list, nil
}

// Create 儲存清單；補上項目 ID、重新正規化數量並蓋上建立時間
func (s *Service) Create(ctx context.Context, userID string, list *common.GroceryList) (*common.GroceryList, error) {
	if list == nil {
		return nil, common.NewValidationError("grocery list is required")
	}

	list.ID = ""
	list.UserID = userID
	list.CreatedAt = s.now().UTC()
	if list.Title == "" {
		list.Title = DefaultTitle(common.Period{Start: list.PeriodStart, End: list.PeriodEnd})
	}

	for i := range list.Items {
		item := &list.Items[i]
		if item.Name == "" {
			return nil, common.NewValidationError(fmt.Sprintf("items[%d].name is required", i))
		}
		if item.ID == "" {
			item.ID = common.GenerateUUID()
		}
		if item.Entries == nil {
			item.Entries = []string{}
		}
		normalizeItem(item)
	}
	if list.Items == nil {
		list.Items = []common.GroceryItem{}
	}

	if err := s.lists.CreateGroceryList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create grocery list: %w", err)
	}

	common.LogInfo("採買清單已儲存",
		zap.String("list_id", list.ID),
		zap.String("user_id", userID),
		zap.Int("items", len(list.Items)),
	)
	return list, nil
}

// normalizeItem 使用者手動輸入的數量再套一次單位換算；沒有單位的不動
func normalizeItem(item *common.GroceryItem) {
	if item.Qty == nil || item.Unit == "" {
		return
	}
	n := quantity.Normalize(item.Qty, item.Unit)
	item.Qty = n.Magnitude
	item.Unit = n.Unit
}

// SetItemBought 設定單一項目的已購買狀態
func (s *Service) SetItemBought(ctx context.Context, id, itemID, userID string, bought bool) (*common.GroceryList, error) {
	list, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			list.Items[i].Bought = bought
			found = true
			break
		}
	}
	if !found {
		return nil, errItemAccess
	}

	if err := s.lists.UpdateGroceryItems(ctx, id, userID, list.Items); err != nil {
		return nil, accessError(err, errListAccess)
	}
	return list, nil
}

// SetAllBought 設定所有項目的已購買狀態
func (s *Service) SetAllBought(ctx context.Context, id, userID string, bought bool) (*common.GroceryList, error) {
	list, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	for i := range list.Items {
		list.Items[i].Bought = bought
	}
	if err := s.lists.UpdateGroceryItems(ctx, id, userID, list.Items); err != nil {
		return nil, accessError(err, errListAccess)
	}
	return list, nil
}

// Delete 刪除清單
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.lists.DeleteGroceryList(ctx, id, userID); err != nil {
		return accessError(err, errListAccess)
	}
	return nil
}

// accessError 不存在或不屬於使用者時一律回 403
func accessError(err, denied error) error {
	if errors.Is(err, common.ErrNotFound) {
		return denied
	}
	return err
}
