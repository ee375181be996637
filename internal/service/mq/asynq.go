package mq

import (
	"context"
	"strconv"

	"github.com/hibiken/asynq"

	"zetrix-gateway/pkg/logger"
)

// asynq 模式下主题即任务类型，同时作为队列名
const asynqMaxRetry = 5

// AsynqProducer 将消息作为 asynq 任务入队，不支持分区键
type AsynqProducer struct {
	client *asynq.Client
}

func NewAsynqProducer(opt asynq.RedisClientOpt) *AsynqProducer {
	return &AsynqProducer{client: asynq.NewClient(opt)}
}

func (p *AsynqProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	_, err := p.client.EnqueueContext(ctx, asynq.NewTask(topic, payload),
		asynq.Queue(topic),
		asynq.MaxRetry(asynqMaxRetry),
	)
	return err
}

func (p *AsynqProducer) Close() error {
	return p.client.Close()
}

// AsynqConsumer 处理失败的任务由 asynq 按退避策略重试
type AsynqConsumer struct {
	opt         asynq.RedisClientOpt
	concurrency int
}

func NewAsynqConsumer(opt asynq.RedisClientOpt, concurrency int) *AsynqConsumer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &AsynqConsumer{opt: opt, concurrency: concurrency}
}

func (c *AsynqConsumer) Subscribe(ctx context.Context, topic string, handler Handler) error {
	srv := asynq.NewServer(c.opt, asynq.Config{
		Concurrency: c.concurrency,
		Queues:      map[string]int{topic: 1},
		Logger:      logger.NewAsynqLogger(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(topic, func(ctx context.Context, t *asynq.Task) error {
		return handler(taskMessage(ctx, topic, t))
	})

	if err := srv.Start(mux); err != nil {
		return err
	}
	<-ctx.Done()
	srv.Shutdown()
	return nil
}

func (c *AsynqConsumer) Close() error {
	return nil
}

func taskMessage(ctx context.Context, topic string, t *asynq.Task) *Message {
	msg := &Message{Topic: topic, Payload: t.Payload()}
	if id, ok := asynq.GetTaskID(ctx); ok {
		msg.ID = id
	}
	if n, ok := asynq.GetRetryCount(ctx); ok && n > 0 {
		msg.Metadata = map[string]string{"retry": strconv.Itoa(n)}
	}
	return msg
}
