package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义交易流水线的业务指标
type BusinessMetrics struct {
	TxSubmittedTotal    *prometheus.CounterVec
	TxFailedTotal       *prometheus.CounterVec
	TxAmountTotal       *prometheus.CounterVec
	PipelineDuration    *prometheus.HistogramVec
	QueryTotal          *prometheus.CounterVec
	WorkerMessagesTotal *prometheus.CounterVec
	EndpointSwitchTotal prometheus.Counter
	InFlightInvocations *prometheus.GaugeVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	f := promauto.With(reg)
	return &BusinessMetrics{
		TxSubmittedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ztx_tx_submitted_total",
			Help: "Transactions accepted by the ledger node",
		}, []string{"kind"}),
		TxFailedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ztx_tx_failed_total",
			Help: "Pipeline invocations that ended in an error, by error code",
		}, []string{"kind", "code"}),
		TxAmountTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ztx_tx_amount_total",
			Help: "Sum of submitted amounts",
		}, []string{"kind"}),
		PipelineDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ztx_pipeline_duration_seconds",
			Help:    "Duration of a pipeline invocation from validation to terminal state",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "state"}),
		QueryTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ztx_query_total",
			Help: "Read-only contract queries",
		}, []string{"status"}),
		WorkerMessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ztx_worker_messages_total",
			Help: "Request messages handled by the worker",
		}, []string{"kind", "result"}),
		EndpointSwitchTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ztx_ledger_endpoint_switch_total",
			Help: "Ledger endpoint reconfigurations",
		}),
		InFlightInvocations: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ztx_pipeline_in_flight",
			Help: "Pipeline invocations currently running",
		}, []string{"kind"}),
	}
}
