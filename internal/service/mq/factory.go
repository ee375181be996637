package mq

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"zetrix-gateway/pkg/config"
)

// New 按 redis.mq_type 选择实现，redis 模式需要传入已连接的 client，asynq 模式自行管理连接
func New(cfg config.Config, rdb *redis.Client) (Producer, Consumer, error) {
	switch cfg.Redis.MQType {
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, nil, fmt.Errorf("kafka.brokers 未配置")
		}
		return NewKafkaProducer(cfg.Kafka.Brokers), NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Worker.Group), nil
	case "redis", "":
		if rdb == nil {
			return nil, nil, fmt.Errorf("redis 未连接")
		}
		return NewRedisProducer(rdb), NewRedisConsumer(rdb, cfg.Worker.Group, cfg.Worker.Consumer), nil
	case "asynq":
		opt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		return NewAsynqProducer(opt), NewAsynqConsumer(opt, cfg.Worker.Concurrency), nil
	default:
		return nil, nil, fmt.Errorf("unsupported mq type: %s", cfg.Redis.MQType)
	}
}
