// Package metrics holds the Prometheus collectors for the roster editor.
// Collectors register with the default registry and are served by promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Commit results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// actionsTotal counts dispatched actions by kind
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_actions_total",
		Help: "Total editor actions dispatched by kind",
	}, []string{"kind"})

	// dispatchDuration tracks reducer latency, dominated by revalidation
	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_dispatch_duration_seconds",
		Help:    "Editor action dispatch duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50us to ~400ms
	}, []string{"kind"})

	// revalidatedRecords tracks dataset size per full revalidation
	revalidatedRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roster_revalidated_records",
		Help:    "Number of records checked per full revalidation",
		Buckets: []float64{10, 100, 500, 1000, 2000, 5000, 10000},
	})

	// commitsTotal counts committed records by mode and result
	commitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_committed_records_total",
		Help: "Total records sent to the commit sink by mode and result",
	}, []string{"mode", "result"})

	// loadRejections counts CSV loads refused by the load limiter
	loadRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roster_load_rejections_total",
		Help: "Total CSV loads rejected because every load slot was busy",
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roster_active_sessions",
		Help: "Number of live editor sessions",
	})
)

// ObserveDispatch records one dispatched action.
func ObserveDispatch(kind string, elapsed time.Duration) {
	actionsTotal.WithLabelValues(kind).Inc()
	dispatchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveRevalidation records the size of a full revalidation pass.
func ObserveRevalidation(records int) {
	revalidatedRecords.Observe(float64(records))
}

// AddCommitted records n records sent to the sink.
func AddCommitted(mode, result string, n int) {
	commitsTotal.WithLabelValues(mode, result).Add(float64(n))
}

// IncLoadRejected records a load refused by the limiter.
func IncLoadRejected() {
	loadRejections.Inc()
}

// SetActiveSessions sets the live session gauge.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
