package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain Prometheus metrics. HTTP-level metrics are
// recorded by the metrics middleware.
type Metrics struct {
	// Flow metrics
	FlowsCreated prometheus.Counter
	FlowsUpdated prometheus.Counter
	FlowsDeleted prometheus.Counter
	FlowAmount   prometheus.Histogram
	FlowErrors   *prometheus.CounterVec

	// Balance metrics
	SnapshotsAppended prometheus.Counter
	AccountBalance    prometheus.Gauge
	CashBalance       prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Password recovery metrics
	ResetEmailsSent prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Flow metrics
		FlowsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashflow_flows_created_total",
			Help: "Total number of flows created",
		}),
		FlowsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashflow_flows_updated_total",
			Help: "Total number of flows updated",
		}),
		FlowsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashflow_flows_deleted_total",
			Help: "Total number of flows deleted",
		}),
		FlowAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashflow_flow_amount",
			Help:    "Flow amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		FlowErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_flow_errors_total",
				Help: "Total number of failed flow mutations by operation",
			},
			[]string{"operation"},
		),

		// Balance metrics
		SnapshotsAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashflow_snapshots_appended_total",
			Help: "Total number of balance snapshots appended",
		}),
		AccountBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cashflow_account_balance",
			Help: "Latest bank account balance",
		}),
		CashBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cashflow_cash_balance",
			Help: "Latest cash balance",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Password recovery metrics
		ResetEmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashflow_reset_emails_sent_total",
			Help: "Total password recovery emails sent",
		}),
	}
}
