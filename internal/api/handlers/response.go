// Package handlers 提供各 HTTP 處理器共用的回應工具
package handlers

import (
	"net/http"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error 依錯誤類型回傳對應狀態碼與 {code, message}
func Error(c *gin.Context, err error) {
	status := common.StatusOf(err)
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, common.ToErrorResponse(err, debugMode(c)))
}

// BadRequest 請求格式錯誤
func BadRequest(c *gin.Context, err error) {
	resp := common.ToErrorResponse(common.ErrInvalidRequest, false)
	if debugMode(c) && err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// BindJSON 解析請求體，失敗時直接回 400
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		BadRequest(c, err)
		return false
	}
	return true
}

func debugMode(c *gin.Context) bool {
	v, ok := c.Get("config")
	if !ok {
		return false
	}
	cfg, ok := v.(*config.Config)
	return ok && cfg.App.Debug
}
