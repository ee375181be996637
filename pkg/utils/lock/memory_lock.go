package lock

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLock 进程内实现，单实例部署或未配置 Redis 时使用
type MemoryLock struct {
	c *gocache.Cache
}

func NewMemoryLock(cleanupInterval time.Duration) *MemoryLock {
	return &MemoryLock{
		c: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Acquire go-cache 的 Add 在 key 已存在且未过期时返回错误，等价于 SETNX
func (l *MemoryLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if err := l.c.Add(keyPrefix+key, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (l *MemoryLock) Release(_ context.Context, key string) error {
	l.c.Delete(keyPrefix + key)
	return nil
}
