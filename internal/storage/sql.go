package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// schema 同時相容 postgres 與 sqlite3；巢狀資料以 JSON 文字存放
var schema = []string{
	`CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL,
		prep_time INTEGER,
		cook_time INTEGER,
		author_id TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		items TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals (user_id, date)`,
	`CREATE TABLE IF NOT EXISTS grocery_lists (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		period_start TEXT NOT NULL DEFAULT '',
		period_end TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		items TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_grocery_lists_user ON grocery_lists (user_id)`,
}

// createdAtLayout 固定寬度，字典序即時間順序
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SQLStore 以 sqlx 實作的儲存層，支援 postgres 與 sqlite3
type SQLStore struct {
	db *sqlx.DB
}

type recipeRow struct {
	ID          string        `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Ingredients string        `db:"ingredients"`
	PrepTime    sql.NullInt64 `db:"prep_time"`
	CookTime    sql.NullInt64 `db:"cook_time"`
	AuthorID    string        `db:"author_id"`
	ImageURL    string        `db:"image_url"`
}

type mealRow struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	Date   string `db:"date"`
	Items  string `db:"items"`
}

type groceryRow struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	Title       string `db:"title"`
	PeriodStart string `db:"period_start"`
	PeriodEnd   string `db:"period_end"`
	CreatedAt   string `db:"created_at"`
	Items       string `db:"items"`
}

// NewSQLStore 連線資料庫並建立資料表
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == "sqlite3" {
		// sqlite 單一寫入者
		db.SetMaxOpenConns(1)
	}
	return newSQLStore(db)
}

func newSQLStore(db *sqlx.DB) (*SQLStore, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &SQLStore{db: db}, nil
}

// CreateRecipe 新增食譜
func (s *SQLStore) CreateRecipe(ctx context.Context, recipe *common.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = common.GenerateUUID()
	}
	ingredients, err := common.ToJSON(recipe.Ingredients, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO recipes (id, title, description, ingredients, prep_time, cook_time, author_id, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		recipe.ID, recipe.Title, recipe.Description, ingredients,
		nullInt(recipe.PrepTime), nullInt(recipe.CookTime), recipe.AuthorID, recipe.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// GetRecipe 取得食譜
func (s *SQLStore) GetRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	var row recipeRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM recipes WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return row.toRecipe()
}

// ListRecipes 列出食譜，依標題排序
func (s *SQLStore) ListRecipes(ctx context.Context, search string) ([]common.Recipe, error) {
	query := `SELECT * FROM recipes`
	var args []interface{}
	if search != "" {
		query += ` WHERE LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` ORDER BY title, id`

	var rows []recipeRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	out := make([]common.Recipe, 0, len(rows))
	for _, row := range rows {
		r, err := row.toRecipe()
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// UpdateRecipe 更新食譜
func (s *SQLStore) UpdateRecipe(ctx context.Context, recipe *common.Recipe) error {
	ingredients, err := common.ToJSON(recipe.Ingredients, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE recipes SET title = ?, description = ?, ingredients = ?, prep_time = ?, cook_time = ?, author_id = ?, image_url = ?
		 WHERE id = ?`),
		recipe.Title, recipe.Description, ingredients,
		nullInt(recipe.PrepTime), nullInt(recipe.CookTime), recipe.AuthorID, recipe.ImageURL,
		recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return expectAffected(res, "recipe", recipe.ID)
}

// DeleteRecipe 刪除食譜
func (s *SQLStore) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM recipes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return expectAffected(res, "recipe", id)
}

// CreateMeal 新增餐點
func (s *SQLStore) CreateMeal(ctx context.Context, meal *common.Meal) error {
	if meal.ID == "" {
		meal.ID = common.GenerateUUID()
	}
	items, err := common.ToJSON(meal.Items, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal meal items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO meals (id, user_id, date, items) VALUES (?, ?, ?, ?)`),
		meal.ID, meal.UserID, meal.Date, items,
	)
	if err != nil {
		return fmt.Errorf("failed to save meal: %w", err)
	}
	return nil
}

// GetMeal 取得使用者的餐點
func (s *SQLStore) GetMeal(ctx context.Context, id, userID string) (*common.Meal, error) {
	var row mealRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM meals WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("meal", id)
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return row.toMeal()
}

// ListMeals 列出使用者在區間內的餐點，依日期排序
func (s *SQLStore) ListMeals(ctx context.Context, userID string, period common.Period) ([]common.Meal, error) {
	query := `SELECT * FROM meals WHERE user_id = ?`
	args := []interface{}{userID}
	if period.Start != "" {
		query += ` AND date >= ?`
		args = append(args, period.Start)
	}
	if period.End != "" {
		query += ` AND date <= ?`
		args = append(args, period.End)
	}
	query += ` ORDER BY date, id`

	var rows []mealRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	out := make([]common.Meal, 0, len(rows))
	for _, row := range rows {
		m, err := row.toMeal()
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

// UpdateMeal 更新餐點
func (s *SQLStore) UpdateMeal(ctx context.Context, meal *common.Meal) error {
	items, err := common.ToJSON(meal.Items, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal meal items: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE meals SET date = ?, items = ? WHERE id = ? AND user_id = ?`),
		meal.Date, items, meal.ID, meal.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return expectAffected(res, "meal", meal.ID)
}

// DeleteMeal 刪除餐點
func (s *SQLStore) DeleteMeal(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM meals WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return expectAffected(res, "meal", id)
}

// CreateGroceryList 新增採買清單
func (s *SQLStore) CreateGroceryList(ctx context.Context, list *common.GroceryList) error {
	if list.ID == "" {
		list.ID = common.GenerateUUID()
	}
	items, err := common.ToJSON(list.Items, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal grocery items: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO grocery_lists (id, user_id, title, period_start, period_end, created_at, items)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		list.ID, list.UserID, list.Title, list.PeriodStart, list.PeriodEnd,
		list.CreatedAt.UTC().Format(createdAtLayout), items,
	)
	if err != nil {
		return fmt.Errorf("failed to save grocery list: %w", err)
	}
	return nil
}

// GetGroceryList 取得使用者的採買清單
func (s *SQLStore) GetGroceryList(ctx context.Context, id, userID string) (*common.GroceryList, error) {
	var row groceryRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM grocery_lists WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("grocery list", id)
		}
		return nil, fmt.Errorf("failed to get grocery list: %w", err)
	}
	return row.toGroceryList()
}

// ListGroceryLists 列出使用者的採買清單，新的在前
func (s *SQLStore) ListGroceryLists(ctx context.Context, userID string) ([]common.GroceryList, error) {
	var rows []groceryRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(
		`SELECT * FROM grocery_lists WHERE user_id = ? ORDER BY created_at DESC, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery lists: %w", err)
	}

	out := make([]common.GroceryList, 0, len(rows))
	for _, row := range rows {
		g, err := row.toGroceryList()
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}

// UpdateGroceryItems 覆寫清單項目
func (s *SQLStore) UpdateGroceryItems(ctx context.Context, id, userID string, items []common.GroceryItem) error {
	data, err := common.ToJSON(items, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal grocery items: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE grocery_lists SET items = ? WHERE id = ? AND user_id = ?`), data, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update grocery items: %w", err)
	}
	return expectAffected(res, "grocery list", id)
}

// DeleteGroceryList 刪除採買清單
func (s *SQLStore) DeleteGroceryList(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM grocery_lists WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete grocery list: %w", err)
	}
	return expectAffected(res, "grocery list", id)
}

// Ping 檢查資料庫連線
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 關閉資料庫連線
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (row recipeRow) toRecipe() (*common.Recipe, error) {
	r := &common.Recipe{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		AuthorID:    row.AuthorID,
		ImageURL:    row.ImageURL,
	}
	if err := common.ParseJSON(row.Ingredients, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if row.PrepTime.Valid {
		v := int(row.PrepTime.Int64)
		r.PrepTime = &v
	}
	if row.CookTime.Valid {
		v := int(row.CookTime.Int64)
		r.CookTime = &v
	}
	return r, nil
}

func (row mealRow) toMeal() (*common.Meal, error) {
	m := &common.Meal{ID: row.ID, UserID: row.UserID, Date: row.Date}
	if err := common.ParseJSON(row.Items, &m.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal items: %w", err)
	}
	return m, nil
}

func (row groceryRow) toGroceryList() (*common.GroceryList, error) {
	g := &common.GroceryList{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		PeriodStart: row.PeriodStart,
		PeriodEnd:   row.PeriodEnd,
	}
	createdAt, err := time.Parse(createdAtLayout, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	g.CreatedAt = createdAt
	if err := common.ParseJSON(row.Items, &g.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery items: %w", err)
	}
	return g, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
