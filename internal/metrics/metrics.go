package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the calculator's Prometheus collectors.
type Metrics struct {
	ComputationsTotal prometheus.Counter
	ComputeDur        prometheus.Histogram
	RejectedInputs    *prometheus.CounterVec // labels: field, source
	SharesTotal       *prometheus.CounterVec // labels: result
	HTTPRequests      *prometheus.CounterVec // labels: path, code
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ComputationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compound_computations_total",
			Help: "Total trajectory computations",
		}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "compound_compute_duration_seconds",
			Help:    "Trajectory compute latency",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
		}),
		RejectedInputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compound_rejected_inputs_total",
			Help: "Raw parameter values rejected by validation",
		}, []string{"field", "source"}),
		SharesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compound_shares_total",
			Help: "Share link copies by outcome",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compound_http_requests_total",
			Help: "HTTP requests by path and status code",
		}, []string{"path", "code"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ComputationsTotal,
			m.ComputeDur,
			m.RejectedInputs,
			m.SharesTotal,
			m.HTTPRequests,
		)
	}
	return m
}
