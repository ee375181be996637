package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"zetrix-gateway/internal/model"
	"zetrix-gateway/internal/service/mq"
	"zetrix-gateway/pkg/logger"
)

const relayBatchSize = 50

// RelayService 负责将本地消息表的消息搬运到 MQ
type RelayService struct {
	db       *gorm.DB
	producer mq.Producer
	interval time.Duration
}

func NewRelayService(db *gorm.DB, producer mq.Producer) *RelayService {
	return &RelayService{
		db:       db,
		producer: producer,
		interval: 500 * time.Millisecond,
	}
}

// Start 轮询直到 ctx 取消
func (s *RelayService) Start(ctx context.Context) {
	logger.Info("[Relay] 启动消息中继服务")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("[Relay] 停止服务")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *RelayService) processPendingMessages(ctx context.Context) {
	// 1. 按写入顺序取一批 Pending 消息
	var messages []model.OutboxMessage
	err := s.db.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id").
		Limit(relayBatchSize).
		Find(&messages).Error
	if err != nil {
		logger.Error("[Relay] 查询消息失败", zap.Error(err))
		return
	}

	for _, msg := range messages {
		// 2. 发送 MQ
		if err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			logger.Error("[Relay] 发送消息失败", zap.Uint64("id", msg.ID), zap.Error(err))
			// 同一个 key 的后续消息留到下一轮，保持顺序
			return
		}

		// 3. 发送成功后才标记 SENT，至少一次投递，消费方需幂等
		if err := s.db.WithContext(ctx).Model(&msg).Update("status", model.OutboxSent).Error; err != nil {
			logger.Error("[Relay] 更新状态失败", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}
		logger.Debug("[Relay] 消息已投递", zap.Uint64("id", msg.ID), zap.String("topic", msg.Topic))
	}
}
