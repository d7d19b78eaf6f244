package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/pkg/common"
)

const (
	// UserIDHeader 由上游閘道驗證後帶入的使用者 ID
	UserIDHeader = "X-User-ID"
	userIDKey    = "user_id"
)

// UserContext 讀取使用者 ID，缺少時回 401
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.ToErrorResponse(common.ErrUnauthorized, false))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID 取出 UserContext 設定的使用者 ID
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
