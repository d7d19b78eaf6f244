package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// QuantityText 食材的原始數量文字，JSON 可為字串或數字
type QuantityText string

// UnmarshalJSON 接受 "250g"、250、null
func (q *QuantityText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a string or a number: %w", err)
	}
	// 數字一律轉成最短十進位（1e3 -> "1000"、2.50 -> "2.5"）
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return fmt.Errorf("quantity out of range: %w", err)
	}
	*q = QuantityText(FormatNumber(f))
	return nil
}

// String 回傳原始文字
func (q QuantityText) String() string {
	return string(q)
}

// FormatNumber 以最短形式輸出數字（2 -> "2"、1.5 -> "1.5"）
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Ingredient 食材
type Ingredient struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	Quantity QuantityText `json:"quantity"`
	// Unit 正規化後的單位，舊資料可能沒有
	Unit string `json:"unit,omitempty"`
}

// Recipe 食譜
type Recipe struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	PrepTime    *int         `json:"prep_time,omitempty"` // 分鐘
	CookTime    *int         `json:"cook_time,omitempty"` // 分鐘
	AuthorID    string       `json:"author_id,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
}

// MealItem 餐點中引用的食譜與份數
type MealItem struct {
	RecipeID string  `json:"recipe_id,omitempty"`
	Title    string  `json:"title,omitempty"`
	// Servings 未設定時為 nil；明確的 0 會保留
	Servings *float64 `json:"servings,omitempty"`
}

// EffectiveServings 未設定時視為 1 份
func (it MealItem) EffectiveServings() float64 {
	if it.Servings == nil {
		return 1
	}
	return *it.Servings
}

// Servings 建立份數指標
func Servings(v float64) *float64 {
	return &v
}

// Meal 某一天的餐點規劃
type Meal struct {
	ID     string     `json:"id,omitempty"`
	Date   string     `json:"date"` // ISO 日期 YYYY-MM-DD
	Items  []MealItem `json:"items"`
	UserID string     `json:"user_id,omitempty"`
}

// GroceryItem 採買清單項目
type GroceryItem struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Qty     *float64 `json:"qty,omitempty"`
	Unit    string   `json:"unit"`
	Entries []string `json:"entries"`
	Bought  bool     `json:"bought"`
}

// GroceryList 已儲存的採買清單
type GroceryList struct {
	ID          string        `json:"id,omitempty"`
	UserID      string        `json:"user_id,omitempty"`
	Title       string        `json:"title,omitempty"`
	PeriodStart string        `json:"period_start,omitempty"`
	PeriodEnd   string        `json:"period_end,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Items       []GroceryItem `json:"items"`
}

// Period 日期區間（含頭尾）
type Period struct {
	Start string `json:"period_start"`
	End   string `json:"period_end"`
}
