package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "eui64"

// metrics are the Prometheus collectors for a Server. Each Server owns its
// registry so that several can coexist in one process.
type metrics struct {
	reg *prometheus.Registry

	calculations *prometheus.CounterVec
	failures     *prometheus.CounterVec
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),

		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Total number of EUI-64 address calculations by result.",
			},
			[]string{"result"},
		),

		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of rejected inputs by error kind.",
			},
			[]string{"kind"},
		),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.reg.MustRegister(
		m.calculations,
		m.failures,
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// calculated records the outcome of a calculation.
func (m *metrics) calculated(f *failure) {
	if f == nil {
		m.calculations.WithLabelValues("success").Inc()
		return
	}

	m.calculations.WithLabelValues("failure").Inc()
	m.rejected(f)
}

// rejected records an input rejected with f, if f is non-nil.
func (m *metrics) rejected(f *failure) {
	if f != nil {
		m.failures.WithLabelValues(f.Kind).Inc()
	}
}
