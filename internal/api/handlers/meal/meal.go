// Package meal 餐點相關的 HTTP 處理器
package meal

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	mealService "meal-planner/internal/core/meal"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 餐點處理程序
type Handler struct {
	service *mealService.Service
}

// NewHandler 創建餐點處理程序
func NewHandler(service *mealService.Service) *Handler {
	return &Handler{service: service}
}

// Register 註冊路由，皆需使用者身分
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List 列出餐點，?start=&end= 為含頭尾的日期區間
func (h *Handler) List(c *gin.Context) {
	period := common.Period{Start: c.Query("start"), End: c.Query("end")}
	meals, err := h.service.List(c.Request.Context(), middleware.UserID(c), period)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if meals == nil {
		meals = []common.Meal{}
	}
	c.JSON(http.StatusOK, meals)
}

// Get 讀取單一餐點
func (h *Handler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Create 建立餐點
func (h *Handler) Create(c *gin.Context) {
	var req common.Meal
	if !handlers.BindJSON(c, &req) {
		return
	}
	m, err := h.service.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Update 更新餐點
func (h *Handler) Update(c *gin.Context) {
	var req common.Meal
	if !handlers.BindJSON(c, &req) {
		return
	}
	m, err := h.service.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), &req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete 刪除餐點
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		handlers.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
