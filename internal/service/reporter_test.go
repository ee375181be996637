package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/monitor"
)

func TestMetricsReporter(t *testing.T) {
	m := monitor.InitBusinessMetrics(prometheus.NewRegistry())
	r := NewMetricsReporter(m)
	ctx := context.Background()
	started := time.Now()

	r.Report(ctx, pipeline.Status{Kind: pipeline.KindTransfer, State: pipeline.StateValidating, Started: started})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlightInvocations.WithLabelValues("transfer")))

	r.Report(ctx, pipeline.Status{Kind: pipeline.KindTransfer, State: pipeline.StateDone, Started: started})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxSubmittedTotal.WithLabelValues("transfer")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightInvocations.WithLabelValues("transfer")))

	r.Report(ctx, pipeline.Status{Kind: pipeline.KindQuery, State: pipeline.StateValidating, Started: started})
	r.Report(ctx, pipeline.Status{Kind: pipeline.KindQuery, State: pipeline.StateFailed, Err: errno.ErrQueryExecution, Started: started})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxFailedTotal.WithLabelValues("query", "30302")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightInvocations.WithLabelValues("query")))

	// 客户端不可用：没有 validating，也不应减少 in-flight
	r.Report(ctx, pipeline.Status{Kind: pipeline.KindInvoke, State: pipeline.StateFailed, Err: errno.ErrClientUnavailable})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxFailedTotal.WithLabelValues("invoke", "30001")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightInvocations.WithLabelValues("invoke")))
}

func TestMetricsReporterNil(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetricsReporter(nil).Report(context.Background(), pipeline.Status{State: pipeline.StateDone})
	})
}
