package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing, so tests can wire handlers without a registry.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RepsCreated     prometheus.Counter
	UploadRows      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "territory_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RepsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "territory_reps_created_total",
			Help: "Total number of reps created in the system",
		}),
		UploadRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "territory_upload_rows_total",
			Help: "Bulk upload rows by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(method, path string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// IncrementRepsCreated increments the reps created counter by n.
func (m *Metrics) IncrementRepsCreated(n int) {
	if m == nil {
		return
	}
	m.RepsCreated.Add(float64(n))
}

// CountUploadRows records bulk upload row outcomes ("accepted"/"rejected")
// for a given upload kind ("reps"/"territory").
func (m *Metrics) CountUploadRows(kind, outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.UploadRows.WithLabelValues(kind, outcome).Add(float64(n))
}
