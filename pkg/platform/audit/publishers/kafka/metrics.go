package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the activity topic sink.
type Metrics struct {
	Published           prometheus.Counter
	CircuitDropped      prometheus.Counter
	PublishFailures     prometheus.Counter
	CircuitBreakerState prometheus.Gauge
}

// NewMetrics registers the sink metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "stargate_activity_kafka_published_total",
			Help: "Total number of activity entries published to Kafka",
		}),
		CircuitDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "stargate_activity_kafka_circuit_dropped_total",
			Help: "Total number of activity entries skipped while the circuit breaker was open",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "stargate_activity_kafka_publish_failures_total",
			Help: "Total number of failed Kafka publishes",
		}),
		CircuitBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stargate_activity_kafka_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) IncPublished() {
	if m == nil {
		return
	}
	m.Published.Inc()
}

func (m *Metrics) IncCircuitDropped() {
	if m == nil {
		return
	}
	m.CircuitDropped.Inc()
}

func (m *Metrics) IncPublishFailures() {
	if m == nil {
		return
	}
	m.PublishFailures.Inc()
}

func (m *Metrics) SetCircuitBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}
