package lock

import (
	"context"
	"time"
)

// Marker 一次性标记，用于消息去重。与 DistributedLock 不同，不记录持有者
type Marker interface {
	// Mark 写入标记，返回 false 表示 ttl 内已被标记
	Mark(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unmark 删除标记，之后同一 key 可以再次 Mark
	Unmark(ctx context.Context, key string) error
}

const markPrefix = "mark:"

var (
	_ Marker = (*RedisLock)(nil)
	_ Marker = (*MemoryLock)(nil)
)

func (l *RedisLock) Mark(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, markPrefix+key, 1, ttl).Result()
}

func (l *RedisLock) Unmark(ctx context.Context, key string) error {
	return l.client.Del(ctx, markPrefix+key).Err()
}

func (l *MemoryLock) Mark(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if err := l.c.Add(markPrefix+key, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (l *MemoryLock) Unmark(_ context.Context, key string) error {
	l.c.Delete(markPrefix + key)
	return nil
}
