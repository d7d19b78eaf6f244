package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"meal-planner/internal/api/handlers/grocery"
	"meal-planner/internal/api/handlers/health"
	"meal-planner/internal/api/handlers/meal"
	"meal-planner/internal/api/handlers/recipe"
	"meal-planner/internal/api/middleware"
	groceryService "meal-planner/internal/core/grocery"
	"meal-planner/internal/core/lookup"
	mealService "meal-planner/internal/core/meal"
	recipeService "meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// Dependencies 路由需要的外部元件
type Dependencies struct {
	Store storage.Store
	// Fetcher 產生採買清單時查詢食譜
	Fetcher lookup.Fetcher
	// Cache 食譜快取，可為 nil
	Cache lookup.Cache
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 初始化服務
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = lookup.NewStoreFetcher(deps.Store)
	}
	var invalidator recipeService.Invalidator
	if deps.Cache != nil {
		invalidator = deps.Cache
	}

	recipeSvc := recipeService.NewService(deps.Store, invalidator)
	mealSvc := mealService.NewService(deps.Store)
	generator := groceryService.NewGenerator(fetcher, cfg.Lookup.Concurrency)
	grocerySvc := groceryService.NewService(deps.Store, deps.Store, generator)

	common.LogInfo("Services initialized",
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("remote_lookup", cfg.Lookup.BaseURL != ""),
		zap.Int("lookup_concurrency", cfg.Lookup.Concurrency),
	)

	// 全局中間件：設置超時和設定
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ToErrorResponse(common.ErrGatewayTimeout, false))
		}
	})

	// 健康檢查路由
	checks := map[string]health.Pinger{"database": deps.Store}
	if p, ok := deps.Cache.(health.Pinger); ok {
		checks["cache"] = p
	}
	var stats health.StatsProvider
	if s, ok := deps.Cache.(health.StatsProvider); ok {
		stats = s
	}
	health.NewHandler(cfg, checks, stats).Register(router)

	recipeHandler := recipe.NewHandler(recipeSvc)
	mealHandler := meal.NewHandler(mealSvc)
	groceryHandler := grocery.NewHandler(grocerySvc)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeHandler.RegisterPublic(api.Group("/recipes"))

		private := api.Group("")
		private.Use(middleware.UserContext())
		private.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow)))
		{
			recipeHandler.RegisterPrivate(private.Group("/recipes"))
			mealHandler.Register(private.Group("/meals"))
			groceryHandler.Register(private.Group("/groceries"))
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.UserIDHeader},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if origin := strings.TrimSpace(cfg.Server.FrontendURL); origin != "" {
		c.AllowOrigins = []string{origin}
		c.AllowCredentials = true
	} else {
		c.AllowAllOrigins = true
	}
	return c
}
