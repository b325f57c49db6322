package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moolen/opsask/internal/routing"
)

// Metrics holds Prometheus metrics for backend tool invocations.
type Metrics struct {
	InvocationsTotal *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	Duration         *prometheus.HistogramVec
}

// NewMetrics creates invocation metrics and registers them with reg.
// The registerer parameter allows flexible registration (global registry
// in the server, a throwaway registry in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	invocationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opsask_backend_invocations_total",
		Help: "Total number of backend tool invocations",
	}, []string{"backend", "tool"})

	errorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "opsask_backend_errors_total",
		Help: "Total number of failed backend tool invocations",
	}, []string{"backend", "tool"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "opsask_backend_invocation_duration_seconds",
		Help:    "Backend tool invocation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "tool"})

	reg.MustRegister(invocationsTotal)
	reg.MustRegister(errorsTotal)
	reg.MustRegister(duration)

	return &Metrics{
		InvocationsTotal: invocationsTotal,
		ErrorsTotal:      errorsTotal,
		Duration:         duration,
	}
}

// ObserveInvocation records one completed invocation attempt.
func (m *Metrics) ObserveInvocation(backend routing.Backend, tool string, elapsed time.Duration, err error) {
	labels := prometheus.Labels{"backend": string(backend), "tool": tool}
	m.InvocationsTotal.With(labels).Inc()
	m.Duration.With(labels).Observe(elapsed.Seconds())
	if err != nil {
		m.ErrorsTotal.With(labels).Inc()
	}
}
