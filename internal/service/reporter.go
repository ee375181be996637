package service

import (
	"context"
	"strconv"
	"time"

	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/monitor"
)

// MetricsReporter 将流水线状态通知转换为业务指标
type MetricsReporter struct {
	m *monitor.BusinessMetrics
}

func NewMetricsReporter(m *monitor.BusinessMetrics) *MetricsReporter {
	return &MetricsReporter{m: m}
}

func (r *MetricsReporter) Report(_ context.Context, s pipeline.Status) {
	if r.m == nil {
		return
	}
	kind := string(s.Kind)

	switch s.State {
	case pipeline.StateValidating:
		r.m.InFlightInvocations.WithLabelValues(kind).Inc()

	case pipeline.StateDone:
		if s.Kind == pipeline.KindQuery {
			r.m.QueryTotal.WithLabelValues("success").Inc()
		} else {
			r.m.TxSubmittedTotal.WithLabelValues(kind).Inc()
		}
		r.finish(s)

	case pipeline.StateFailed:
		code, _ := errno.Decode(s.Err)
		r.m.TxFailedTotal.WithLabelValues(kind, strconv.Itoa(code)).Inc()
		if s.Kind == pipeline.KindQuery {
			r.m.QueryTotal.WithLabelValues("error").Inc()
		}
		// 客户端不可用时调用从未进入 validating
		if !s.Started.IsZero() {
			r.finish(s)
		}
	}
}

func (r *MetricsReporter) finish(s pipeline.Status) {
	kind := string(s.Kind)
	r.m.InFlightInvocations.WithLabelValues(kind).Dec()
	r.m.PipelineDuration.WithLabelValues(kind, string(s.State)).Observe(time.Since(s.Started).Seconds())
}
