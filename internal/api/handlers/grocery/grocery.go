// Package grocery 採買清單相關的 HTTP 處理器
package grocery

import (
	"net/http"
	"strconv"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/middleware"
	groceryService "meal-planner/internal/core/grocery"
	"meal-planner/internal/core/quantity"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// PreviewItem 彙整結果中的一列
type PreviewItem struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Unit    string   `json:"unit"`
	Qty     *float64 `json:"qty,omitempty"`
	Display string   `json:"display"`
	Entries []string `json:"entries"`
}

// PreviewResponse 產生採買清單的回應
type PreviewResponse struct {
	PeriodStart string        `json:"period_start"`
	PeriodEnd   string        `json:"period_end"`
	Title       string        `json:"title"`
	Items       []PreviewItem `json:"items"`
}

// Handler 採買清單處理程序
type Handler struct {
	service *groceryService.Service
}

// NewHandler 創建採買清單處理程序
func NewHandler(service *groceryService.Service) *Handler {
	return &Handler{service: service}
}

// Register 註冊路由，皆需使用者身分
func (h *Handler) Register(g *gin.RouterGroup) {
	g.POST("/generate", h.Generate)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/items", h.SetAllBought)
	g.PATCH("/:id/items/:item_id", h.SetItemBought)
}

// Generate 依期間內的餐點產生彙整結果（不儲存）
func (h *Handler) Generate(c *gin.Context) {
	var period common.Period
	if !handlers.BindJSON(c, &period) {
		return
	}

	agg, err := h.service.Preview(c.Request.Context(), middleware.UserID(c), period)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	resp := PreviewResponse{
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Title:       groceryService.DefaultTitle(period),
		Items:       make([]PreviewItem, 0, len(agg)),
	}
	for _, key := range agg.Keys() {
		e := agg[key]
		resp.Items = append(resp.Items, PreviewItem{
			Key:     key,
			Name:    e.Name,
			Unit:    e.Unit,
			Qty:     e.Magnitude,
			Display: quantity.Format(e.Magnitude, e.Unit),
			Entries: e.Provenance,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// List 列出使用者的清單
func (h *Handler) List(c *gin.Context) {
	lists, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if lists == nil {
		lists = []common.GroceryList{}
	}
	c.JSON(http.StatusOK, lists)
}

// Get 讀取清單
func (h *Handler) Get(c *gin.Context) {
	list, err := h.service.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create 儲存清單
func (h *Handler) Create(c *gin.Context) {
	var req common.GroceryList
	if !handlers.BindJSON(c, &req) {
		return
	}
	list, err := h.service.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// Delete 刪除清單
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		handlers.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAllBought 全部標記，?bought= 預設為 true
func (h *Handler) SetAllBought(c *gin.Context) {
	bought, ok := boughtParam(c)
	if !ok {
		return
	}
	list, err := h.service.SetAllBought(c.Request.Context(), c.Param("id"), middleware.UserID(c), bought)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SetItemBought 標記單一項目
func (h *Handler) SetItemBought(c *gin.Context) {
	bought, ok := boughtParam(c)
	if !ok {
		return
	}
	list, err := h.service.SetItemBought(c.Request.Context(), c.Param("id"), c.Param("item_id"), middleware.UserID(c), bought)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func boughtParam(c *gin.Context) (bool, bool) {
	raw := c.DefaultQuery("bought", "true")
	bought, err := strconv.ParseBool(raw)
	if err != nil {
		handlers.Error(c, common.NewValidationError("bought must be true or false"))
		return false, false
	}
	return bought, true
}
