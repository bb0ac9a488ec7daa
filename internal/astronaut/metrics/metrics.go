package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the astronaut module.
// Tracks people/duty creation counts, duty rejections and critical path durations.
type Metrics struct {
	PeopleCreated      prometheus.Counter
	DutiesCreated      prometheus.Counter
	DutyRejections     *prometheus.CounterVec
	CreateDutyDuration prometheus.Histogram
	OverviewDuration   prometheus.Histogram
}

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// New creates the metrics registered with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers against reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PeopleCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "stargate_people_created_total",
			Help: "Total number of people created",
		}),
		DutiesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "stargate_duties_created_total",
			Help: "Total number of astronaut duties created",
		}),
		DutyRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stargate_duty_rejections_total",
			Help: "Duty creation failures by error code",
		}, []string{"code"}),
		CreateDutyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stargate_create_duty_duration_seconds",
			Help:    "Duration of CreateDuty operations (validation, lock and transaction)",
			Buckets: durationBuckets,
		}),
		OverviewDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stargate_people_overview_duration_seconds",
			Help:    "Duration of GetPeopleOverview operations",
			Buckets: durationBuckets,
		}),
	}
}

// IncrementPeopleCreated records a successful person creation.
func (m *Metrics) IncrementPeopleCreated() {
	m.PeopleCreated.Inc()
}

// IncrementDutiesCreated records a successful duty creation.
func (m *Metrics) IncrementDutiesCreated() {
	m.DutiesCreated.Inc()
}

// IncrementDutyRejected records a failed duty creation under its error code.
func (m *Metrics) IncrementDutyRejected(code string) {
	m.DutyRejections.WithLabelValues(code).Inc()
}

// ObserveCreateDuty records the duration of a CreateDuty operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateDuty(start time.Time) {
	m.CreateDutyDuration.Observe(time.Since(start).Seconds())
}

// ObserveOverview records the duration of a GetPeopleOverview operation.
func (m *Metrics) ObserveOverview(start time.Time) {
	m.OverviewDuration.Observe(time.Since(start).Seconds())
}
