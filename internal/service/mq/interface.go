package mq

import "context"

// Message 代表一条通用的业务消息
type Message struct {
	ID       string            // 消息ID (Redis Stream ID 或 Kafka partition-offset)
	Topic    string            // 主题 (例如 "ztx_tx_requests")
	Key      string            // 分区键 (例如来源地址)
	Payload  []byte            // 消息体 (JSON)
	Metadata map[string]string // 元数据
}

// Producer 生产者接口
type Producer interface {
	// Publish 发送消息
	// key: 用于分区排序，传空字符串则随机分区
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}

// Handler 消息处理函数，返回 error 表示未处理完成，消息不会被确认
type Handler func(msg *Message) error

// Consumer 消费者接口
type Consumer interface {
	// Subscribe 订阅主题并阻塞消费，直到 ctx 取消
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close 关闭消费者
	Close() error
}
