package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

// Cache 定义通用缓存接口，值以 JSON 序列化存储
type Cache interface {
	// Set 设置缓存
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get 获取缓存，并将结果 Unmarshal 到 target 中；未命中返回 ErrMiss
	Get(ctx context.Context, key string, target any) error
	// Delete 删除缓存
	Delete(ctx context.Context, key string) error
}
