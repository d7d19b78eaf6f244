package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisCache 多個實例共用的食譜快取
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 連線 Redis 並建立快取
func NewRedisCache(ctx context.Context, cacheCfg config.CacheConfig, redisCfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheWithClient(client, cacheCfg.TTL), nil
}

// NewRedisCacheWithClient 使用既有 client 建立快取
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get 獲取緩存
func (s *RedisCache) Get(ctx context.Context, id string) (*common.Recipe, error) {
	data, err := s.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var recipe common.Recipe
	if err := common.ParseJSONBytes(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return &recipe, nil
}

// Set 設置緩存
func (s *RedisCache) Set(ctx context.Context, id string, recipe *common.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := s.client.Set(ctx, cacheKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Invalidate 移除單筆緩存
func (s *RedisCache) Invalidate(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Ping 檢查 Redis 連線
func (s *RedisCache) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisCache) Close() error {
	return s.client.Close()
}

// cacheKey 生成緩存鍵
func cacheKey(id string) string {
	return "meal-planner:recipe:" + id
}
