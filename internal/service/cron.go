package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"zetrix-gateway/internal/model"
	"zetrix-gateway/pkg/logger"
	"zetrix-gateway/pkg/utils/lock"
)

const outboxPurgeLock = "cron:lock:outbox_purge"

// CronService 定时维护任务，多实例部署时通过分布式锁保证同一时刻只有一个实例执行
type CronService struct {
	cron      *cron.Cron
	locker    lock.DistributedLock
	spec      string
	retention time.Duration

	// purge 删除 before 之前已投递的 outbox 消息，返回删除行数
	purge func(ctx context.Context, before time.Time) (int64, error)
}

// NewCronService spec 为 cron 表达式 (例如 "@every 1h")，retention 为已投递消息的保留时长
func NewCronService(db *gorm.DB, locker lock.DistributedLock, spec string, retention time.Duration) *CronService {
	return &CronService{
		cron:      cron.New(),
		locker:    locker,
		spec:      spec,
		retention: retention,
		purge: func(ctx context.Context, before time.Time) (int64, error) {
			res := db.WithContext(ctx).
				Where("status = ? AND updated_at < ?", model.OutboxSent, before).
				Delete(&model.OutboxMessage{})
			return res.RowsAffected, res.Error
		},
	}
}

// Start 注册任务并阻塞直到 ctx 取消，等待正在执行的任务结束后返回
func (s *CronService) Start(ctx context.Context) {
	if _, err := s.cron.AddFunc(s.spec, func() { s.PurgeOutbox(ctx) }); err != nil {
		logger.Error("Cron 表达式无效", zap.String("spec", s.spec), zap.Error(err))
		return
	}
	s.cron.Start()
	logger.Info("Cron Service started", zap.String("spec", s.spec))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	logger.Info("Cron Service stopped")
}

// PurgeOutbox 清理过期的已投递消息
func (s *CronService) PurgeOutbox(ctx context.Context) {
	// 1. 获取分布式锁，防止多实例同时执行
	locked, err := s.locker.Acquire(ctx, outboxPurgeLock, time.Minute)
	if err != nil || !locked {
		logger.Debug("PurgeOutbox: 获取锁失败或已有实例在运行", zap.Error(err))
		return
	}
	defer func() { _ = s.locker.Release(ctx, outboxPurgeLock) }()

	// 2. 删除保留期之前的 SENT 消息
	before := time.Now().Add(-s.retention)
	n, err := s.purge(ctx, before)
	if err != nil {
		logger.Error("清理 outbox 失败", zap.Error(err))
		return
	}
	logger.Info("清理 outbox 完成", zap.Int64("deleted", n), zap.Time("before", before))
}
