package blog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Effect outcomes recorded in metrics
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeCached  = "cached"
)

// Metrics records effect activity. Create it once per process and share it
// between orchestrators; a nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the effect metrics with reg. A nil reg creates
// unregistered collectors, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "effect_requests_total",
			Help:      "Service calls started by blog effects, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blog",
			Name:      "effect_duration_seconds",
			Help:      "Duration of service calls started by blog effects.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) observe(op Operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(op), outcome).Inc()
	if outcome != outcomeCached {
		m.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	}
}
