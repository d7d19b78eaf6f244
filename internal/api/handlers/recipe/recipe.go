// Package recipe 食譜相關的 HTTP 處理器
package recipe

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	recipeService "meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublic 不需登入的路由
func (h *Handler) RegisterPublic(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.GET("/ingredients", h.Ingredients)
	g.GET("/:id", h.Get)
}

// RegisterPrivate 需要使用者身分的路由
func (h *Handler) RegisterPrivate(g *gin.RouterGroup) {
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List 列出食譜，可用 ?search= 篩選標題
func (h *Handler) List(c *gin.Context) {
	recipes, err := h.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if recipes == nil {
		recipes = []common.Recipe{}
	}
	c.JSON(http.StatusOK, recipes)
}

// Ingredients 所有食材名稱
func (h *Handler) Ingredients(c *gin.Context) {
	names, err := h.service.IngredientNames(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// Get 取得單一食譜
func (h *Handler) Get(c *gin.Context) {
	recipe, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Create 建立食譜
func (h *Handler) Create(c *gin.Context) {
	var req common.Recipe
	if !handlers.BindJSON(c, &req) {
		return
	}
	recipe, err := h.service.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// Update 更新食譜
func (h *Handler) Update(c *gin.Context) {
	var req common.Recipe
	if !handlers.BindJSON(c, &req) {
		return
	}
	recipe, err := h.service.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), &req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Delete 刪除食譜
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		common.LogDebug("刪除食譜失敗", zap.String("recipe_id", id), zap.Error(err))
		handlers.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
