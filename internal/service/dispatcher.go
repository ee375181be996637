package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"zetrix-gateway/internal/event"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/internal/service/mq"
	"zetrix-gateway/pkg/crypto_util"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/logger"
	"zetrix-gateway/pkg/monitor"
	"zetrix-gateway/pkg/utils/lock"
)

const publishAttempts = 3

// Dispatcher 消费交易请求消息，逐条执行流水线并发布结果
type Dispatcher struct {
	svc         *TxService
	producer    mq.Producer
	marker      lock.Marker
	resultTopic string
	dedupTTL    time.Duration
}

// NewDispatcher marker 为 nil 或 dedupTTL 为 0 时不去重
func NewDispatcher(svc *TxService, producer mq.Producer, marker lock.Marker, resultTopic string, dedupTTL time.Duration) *Dispatcher {
	return &Dispatcher{
		svc:         svc,
		producer:    producer,
		marker:      marker,
		resultTopic: resultTopic,
		dedupTTL:    dedupTTL,
	}
}

// Run 订阅请求主题，阻塞直到 ctx 取消
func (d *Dispatcher) Run(ctx context.Context, consumer mq.Consumer, topic string) error {
	return consumer.Subscribe(ctx, topic, func(msg *mq.Message) error {
		return d.Handle(ctx, msg)
	})
}

// Handle 处理一条请求消息。返回 error 时消息不会被确认
func (d *Dispatcher) Handle(ctx context.Context, msg *mq.Message) error {
	// 1. 解析请求
	var req event.TxRequestEvent
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		// 格式错误的消息无法关联结果，确认后丢弃
		logger.Warn("[Dispatcher] 丢弃无法解析的消息", zap.String("msg_id", msg.ID), zap.Error(err))
		d.count("unknown", "malformed")
		return nil
	}
	if req.ID == "" {
		req.ID = msg.ID
	}

	// 2. 去重：按请求 ID 标记，重复投递只执行一次
	dedup := d.marker != nil && d.dedupTTL > 0
	if dedup {
		ok, err := d.marker.Mark(ctx, dedupKey(req.ID), d.dedupTTL)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("[Dispatcher] 重复请求，跳过", zap.String("request_id", req.ID))
			d.count(req.Kind, "duplicate")
			d.publish(ctx, resultOf(req, nil, errno.ErrDuplicateRequest))
			return nil
		}
	}

	// 3. 执行流水线
	out, err := d.process(WithRequestID(ctx, req.ID), req)
	result := resultOf(req, out, err)
	if err != nil {
		d.count(req.Kind, "failed")
		// 失败的请求允许重试
		if dedup {
			if uerr := d.marker.Unmark(ctx, dedupKey(req.ID)); uerr != nil {
				logger.Warn("[Dispatcher] 清除去重标记失败", zap.String("request_id", req.ID), zap.Error(uerr))
			}
		}
	} else {
		d.count(req.Kind, "success")
	}

	// 4. 发布结果
	d.publish(ctx, result)
	return nil
}

func (d *Dispatcher) process(ctx context.Context, req event.TxRequestEvent) (*pipeline.Outcome, error) {
	payload := []byte(req.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	switch pipeline.Kind(req.Kind) {
	case pipeline.KindTransfer:
		var r pipeline.TransferRequest
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, errno.ErrBind.Wrap(err)
		}
		return d.svc.Transfer(ctx, r)
	case pipeline.KindInvoke:
		var r pipeline.InvokeRequest
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, errno.ErrBind.Wrap(err)
		}
		return d.svc.Invoke(ctx, r)
	case pipeline.KindQuery:
		var r pipeline.QueryRequest
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, errno.ErrBind.Wrap(err)
		}
		return d.svc.Query(ctx, r)
	default:
		return nil, errno.ErrUnsupportedKind.WithDetail(req.Kind)
	}
}

func (d *Dispatcher) publish(ctx context.Context, result event.TxResultEvent) {
	body, err := json.Marshal(result)
	if err != nil {
		logger.Error("[Dispatcher] 结果序列化失败", zap.String("request_id", result.ID), zap.Error(err))
		return
	}

	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = d.producer.Publish(ctx, d.resultTopic, result.ID, body)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}
	// 交易可能已提交，不能让消息重新投递，只记录日志
	logger.Error("[Dispatcher] 发布结果失败",
		zap.String("request_id", result.ID),
		zap.String("hash", result.Hash),
		zap.Error(err),
	)
}

func (d *Dispatcher) count(kind, result string) {
	if m := monitor.Business; m != nil {
		m.WorkerMessagesTotal.WithLabelValues(kind, result).Inc()
	}
}

func dedupKey(requestID string) string {
	return "request:" + crypto_util.CalculateBlake3([]byte(requestID))
}

func resultOf(req event.TxRequestEvent, out *pipeline.Outcome, err error) event.TxResultEvent {
	res := event.TxResultEvent{ID: req.ID, Kind: req.Kind}
	if err != nil {
		code, msg := errno.Decode(err)
		res.Error = &event.ResultError{Code: code, Message: msg}
		return res
	}
	res.Success = out.Success
	res.Hash = out.Hash
	res.Result = out.Result
	return res
}
