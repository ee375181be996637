package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetrix-gateway/pkg/utils/lock"
)

func newTestCron(locker lock.DistributedLock, purge func(context.Context, time.Time) (int64, error)) *CronService {
	return &CronService{
		cron:      cron.New(),
		locker:    locker,
		spec:      "@every 1h",
		retention: 24 * time.Hour,
		purge:     purge,
	}
}

func TestPurgeOutbox(t *testing.T) {
	locker := lock.NewMemoryLock(time.Minute)
	var calls int
	var cutoff time.Time
	s := newTestCron(locker, func(_ context.Context, before time.Time) (int64, error) {
		calls++
		cutoff = before
		return 3, nil
	})

	s.PurgeOutbox(context.Background())
	assert.Equal(t, 1, calls)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), cutoff, time.Minute)

	// 锁已释放，可再次执行
	s.PurgeOutbox(context.Background())
	assert.Equal(t, 2, calls)
}

func TestPurgeOutbox_SkipWhenLocked(t *testing.T) {
	locker := lock.NewMemoryLock(time.Minute)
	ok, err := locker.Acquire(context.Background(), outboxPurgeLock, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	s := newTestCron(locker, func(context.Context, time.Time) (int64, error) {
		t.Fatalf("其他实例持有锁时不应执行清理")
		return 0, nil
	})
	s.PurgeOutbox(context.Background())
}

func TestPurgeOutbox_ErrorReleasesLock(t *testing.T) {
	locker := lock.NewMemoryLock(time.Minute)
	s := newTestCron(locker, func(context.Context, time.Time) (int64, error) {
		return 0, errors.New("db down")
	})
	s.PurgeOutbox(context.Background())

	ok, err := locker.Acquire(context.Background(), outboxPurgeLock, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "失败后也应释放锁")
}

func TestCronStart_InvalidSpec(t *testing.T) {
	s := newTestCron(lock.NewMemoryLock(time.Minute), nil)
	s.spec = "not a spec"

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("无效表达式应立即返回")
	}
}
