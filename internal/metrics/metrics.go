// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors so tests can use a private registry.
type Metrics struct {
	ExpensesCommitted  prometheus.Counter
	ExpenseRejections  *prometheus.CounterVec
	AttachmentsCreated prometheus.Counter
	RPCDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExpensesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "expenses_committed_total",
			Help:      "Number of expenses committed to the ledger.",
		}),
		ExpenseRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "expense_rejections_total",
			Help:      "Number of drafts rejected by validation, by reason.",
		}, []string{"reason"}),
		AttachmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "attachments_total",
			Help:      "Number of attachments added to drafts.",
		}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.ExpensesCommitted, m.ExpenseRejections, m.AttachmentsCreated, m.RPCDuration)
	return m
}
