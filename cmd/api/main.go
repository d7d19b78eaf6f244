package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/lookup"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/storage"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.App.Name); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("recipe_api_url", cfg.Lookup.BaseURL),
	)

	// 初始化儲存層
	store, err := storage.New(cfg.Database)
	if err != nil {
		common.LogFatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	// 初始化快取
	cache, err := newCache(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cache != nil {
		defer cache.Close()
	}

	// 食譜查詢來源：有設定遠端 API 時走 HTTP，否則讀本地儲存層
	var source lookup.Fetcher = lookup.NewStoreFetcher(store)
	if cfg.Lookup.BaseURL != "" {
		source = lookup.NewRemoteFetcher(cfg.Lookup)
	}

	deps := api.Dependencies{
		Store:   store,
		Fetcher: lookup.NewCachedFetcher(source, cache),
		Cache:   cache,
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

// newCache 依設定建立食譜快取；停用時回傳 nil
func newCache(cfg *config.Config) (lookup.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c, err := lookup.NewRedisCache(ctx, cfg.Cache, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return lookup.NewMemoryCache(cfg.Cache), nil
	}
}
