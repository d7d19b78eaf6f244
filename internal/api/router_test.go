package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meal-planner/internal/core/lookup"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Version: "test"},
		Database:    config.DatabaseConfig{Driver: "memory"},
		Lookup:      config.LookupConfig{Concurrency: 4},
		DedupWindow: time.Millisecond,
	}
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := storage.NewMemoryStore()
	cache := lookup.NewMemoryCache(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	t.Cleanup(func() { cache.Close() })

	router, err := SetupRouter(testConfig(), Dependencies{
		Store:   store,
		Fetcher: lookup.NewCachedFetcher(lookup.NewStoreFetcher(store), cache),
		Cache:   cache,
	})
	require.NoError(t, err)
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, user string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache"`)

	w = s.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	w = s.do(http.MethodGet, "/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrivateRoutesRequireUser(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/meals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/recipes", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGroceryFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/recipes", "u1", map[string]interface{}{
		"title": "Soup",
		"ingredients": []map[string]interface{}{
			{"name": "Carrot", "quantity": "100g"},
			{"name": "Salt", "quantity": "to taste"},
			{"name": "Water", "quantity": 1, "unit": "l"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var soup common.Recipe
	decode(t, w, &soup)

	w = s.do(http.MethodPost, "/api/v1/meals", "u1", map[string]interface{}{
		"date":  "2024-06-05",
		"items": []map[string]interface{}{{"recipe_id": soup.ID, "servings": 2}, {"recipe_id": "gone"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/meals", "u1", map[string]interface{}{
		"date":  "2024-07-05",
		"items": []map[string]interface{}{{"recipe_id": soup.ID}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/v1/meals?start=2024-06-01&end=2024-06-30", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var meals []common.Meal
	decode(t, w, &meals)
	assert.Len(t, meals, 1)

	w = s.do(http.MethodPost, "/api/v1/groceries/generate", "u1", common.Period{Start: "2024-06-01", End: "2024-06-30"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var preview struct {
		Title string `json:"title"`
		Items []struct {
			Key     string   `json:"key"`
			Name    string   `json:"name"`
			Unit    string   `json:"unit"`
			Qty     *float64 `json:"qty"`
			Display string   `json:"display"`
			Entries []string `json:"entries"`
		} `json:"items"`
	}
	decode(t, w, &preview)
	require.Len(t, preview.Items, 3)

	carrot := preview.Items[0]
	assert.Equal(t, "Carrot::g", carrot.Key)
	require.NotNil(t, carrot.Qty)
	assert.Equal(t, 200.0, *carrot.Qty)
	assert.Equal(t, "200 g", carrot.Display)
	assert.Equal(t, []string{"Soup ×2: 100g"}, carrot.Entries)

	salt := preview.Items[1]
	assert.Equal(t, "Salt::", salt.Key)
	assert.Nil(t, salt.Qty)
	assert.Equal(t, "", salt.Display)

	water := preview.Items[2]
	assert.Equal(t, "Water::ml", water.Key)
	assert.Equal(t, "2 l", water.Display)

	// 儲存成清單再勾選
	items := make([]map[string]interface{}, 0, len(preview.Items))
	for _, it := range preview.Items {
		item := map[string]interface{}{"name": it.Name, "unit": it.Unit, "entries": it.Entries}
		if it.Qty != nil {
			item["qty"] = *it.Qty
		}
		items = append(items, item)
	}
	w = s.do(http.MethodPost, "/api/v1/groceries", "u1", map[string]interface{}{
		"title":        preview.Title,
		"period_start": "2024-06-01",
		"period_end":   "2024-06-30",
		"items":        items,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var list common.GroceryList
	decode(t, w, &list)
	require.Len(t, list.Items, 3)
	assert.NotEmpty(t, list.Items[0].ID)

	w = s.do(http.MethodGet, "/api/v1/groceries/"+list.ID, "u2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Grocery list not found or access denied")

	w = s.do(http.MethodPatch, "/api/v1/groceries/"+list.ID+"/items/"+list.Items[0].ID+"?bought=true", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.True(t, list.Items[0].Bought)
	assert.False(t, list.Items[1].Bought)

	w = s.do(http.MethodPatch, "/api/v1/groceries/"+list.ID+"/items/unknown", "u1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Item not found in grocery list")

	w = s.do(http.MethodPatch, "/api/v1/groceries/"+list.ID+"/items?bought=maybe", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/v1/groceries/"+list.ID+"/items", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	for _, it := range list.Items {
		assert.True(t, it.Bought)
	}

	w = s.do(http.MethodGet, "/api/v1/groceries", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lists []common.GroceryList
	decode(t, w, &lists)
	assert.Len(t, lists, 1)

	w = s.do(http.MethodDelete, "/api/v1/groceries/"+list.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecipeAuthorship(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/recipes", "u1", map[string]interface{}{"title": "Pancakes"})
	require.Equal(t, http.StatusCreated, w.Code)
	var r common.Recipe
	decode(t, w, &r)

	w = s.do(http.MethodPut, "/api/v1/recipes/"+r.ID, "u2", map[string]interface{}{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/recipes?search=pan", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []common.Recipe
	decode(t, w, &found)
	assert.Len(t, found, 1)

	w = s.do(http.MethodDelete, "/api/v1/recipes/"+r.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/recipes/"+r.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/recipes", "u1", map[string]interface{}{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
