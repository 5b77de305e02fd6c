package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the directory module. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Origin list latency and failures by origin
	OriginFetchDuration *prometheus.HistogramVec
	OriginFetchFailures *prometheus.CounterVec

	// Records contributed by each origin on the last installed refresh
	OriginRecords *prometheus.GaugeVec

	RefreshDuration prometheus.Histogram
	RefreshTotal    *prometheus.CounterVec

	// Mutation outcomes by origin, kind and outcome (applied, failed, denied)
	MutationOutcomes *prometheus.CounterVec
}

// New registers the directory metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OriginFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "advohub_directory_origin_fetch_duration_seconds",
			Help:    "Duration of origin list calls by origin",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"origin"}),

		OriginFetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advohub_directory_origin_fetch_failures_total",
			Help: "Origin list calls that contributed no records, by origin and reason",
		}, []string{"origin", "reason"}),

		OriginRecords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "advohub_directory_origin_records",
			Help: "Records contributed by each origin to the current directory snapshot",
		}, []string{"origin"}),

		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "advohub_directory_refresh_duration_seconds",
			Help:    "Duration of a full directory refresh including all origin fetches",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		RefreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advohub_directory_refresh_total",
			Help: "Directory refresh cycles by result (installed, superseded)",
		}, []string{"result"}),

		MutationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advohub_directory_mutations_total",
			Help: "Directory mutation attempts by origin, kind and outcome",
		}, []string{"origin", "kind", "outcome"}),
	}
}

// ObserveFetch records the duration of one origin list call.
func (m *Metrics) ObserveFetch(origin string, d time.Duration) {
	if m != nil {
		m.OriginFetchDuration.WithLabelValues(origin).Observe(d.Seconds())
	}
}

// IncrementFetchFailure records an origin that contributed no records.
func (m *Metrics) IncrementFetchFailure(origin, reason string) {
	if m != nil {
		m.OriginFetchFailures.WithLabelValues(origin, reason).Inc()
	}
}

// SetOriginRecords records how many records an origin contributed.
func (m *Metrics) SetOriginRecords(origin string, n int) {
	if m != nil {
		m.OriginRecords.WithLabelValues(origin).Set(float64(n))
	}
}

// ObserveRefresh records a refresh cycle and its result.
func (m *Metrics) ObserveRefresh(result string, d time.Duration) {
	if m != nil {
		m.RefreshTotal.WithLabelValues(result).Inc()
		m.RefreshDuration.Observe(d.Seconds())
	}
}

// IncrementMutation records a mutation attempt outcome.
func (m *Metrics) IncrementMutation(origin, kind, outcome string) {
	if m != nil {
		m.MutationOutcomes.WithLabelValues(origin, kind, outcome).Inc()
	}
}
