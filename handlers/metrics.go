package handlers

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters the handlers keep, labelled by endpoint.
type Metrics struct {
	Requests *prometheus.CounterVec
	Errors   *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskservice_endpoint_calls_total",
			Help: "Total number of calls per endpoint.",
		}, []string{"endpoint"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskservice_errors_total",
			Help: "Total number of failed requests per endpoint.",
		}, []string{"endpoint"}),
	}
	reg.MustRegister(m.Requests, m.Errors)
	return m
}
