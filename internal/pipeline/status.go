package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/logger"
)

// Kind 流水线类型
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindInvoke   Kind = "invoke"
	KindQuery    Kind = "query"
)

// State 流水线阶段，严格顺序推进，Done / Failed 为终态
type State string

const (
	StateValidating        State = "validating"
	StateResolvingAmount   State = "resolving_amount"
	StateNormalizingParams State = "normalizing_params"
	StateFetchingNonce     State = "fetching_nonce"
	StateBuildingOperation State = "building_operation"
	StateEvaluatingFee     State = "evaluating_fee"
	StateBuildingBlob      State = "building_blob"
	StateSigning           State = "signing"
	StateSubmitting        State = "submitting"
	StateCalling           State = "calling"
	StateDecodingResult    State = "decoding_result"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// 对外展示的状态文本
const (
	TextValidating     = "validating"
	TextSubmitting     = "submitting tx..."
	TextInvoking       = "invoking..."
	TextQuerying       = "querying..."
	TextSuccess        = "Success"
	TextError          = "Error"
	TextNotInitialized = "client not initialized"
)

// Status 一次状态通知，仅供观察，不影响流水线结果
type Status struct {
	Kind  Kind
	State State
	Text  string
	Err   error

	// Started 本次调用开始时间，客户端不可用时为零值
	Started time.Time
}

type StatusReporter interface {
	Report(ctx context.Context, s Status)
}

// StatusFunc 适配普通函数
type StatusFunc func(ctx context.Context, s Status)

func (f StatusFunc) Report(ctx context.Context, s Status) { f(ctx, s) }

type nopReporter struct{}

func (nopReporter) Report(context.Context, Status) {}

type logReporter struct{}

// LogReporter 将状态写入全局 logger
func LogReporter() StatusReporter {
	return logReporter{}
}

func (logReporter) Report(_ context.Context, s Status) {
	if s.Err != nil {
		code, msg := errno.Decode(s.Err)
		logger.Warn("pipeline failed",
			zap.String("kind", string(s.Kind)),
			zap.String("status", s.Text),
			zap.Int("code", code),
			zap.String("error", msg),
		)
		return
	}
	logger.Debug("pipeline status",
		zap.String("kind", string(s.Kind)),
		zap.String("state", string(s.State)),
		zap.String("status", s.Text),
	)
}

type multiReporter []StatusReporter

// MultiReporter 依次通知多个 reporter
func MultiReporter(rs ...StatusReporter) StatusReporter {
	return multiReporter(rs)
}

func (m multiReporter) Report(ctx context.Context, s Status) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, s)
		}
	}
}

// statusText 每个阶段展示的文本
func statusText(kind Kind, state State) string {
	switch state {
	case StateValidating:
		return TextValidating
	case StateDone:
		return TextSuccess
	case StateFailed:
		return TextError
	}
	switch kind {
	case KindInvoke:
		return TextInvoking
	case KindQuery:
		return TextQuerying
	default:
		return TextSubmitting
	}
}
