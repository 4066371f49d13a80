package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ImpactMetrics records counters for the carbon impact pipeline.
type ImpactMetrics struct {
	impactsRecorded  *prometheus.CounterVec
	savedKg          prometheus.Counter
	badgesAwarded    *prometheus.CounterVec
	consumerFailures *prometheus.CounterVec
}

// NewImpactMetrics registers the impact pipeline metrics on the provided
// registerer.
func NewImpactMetrics(reg prometheus.Registerer) *ImpactMetrics {
	if reg == nil {
		return &ImpactMetrics{}
	}
	impactsRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "impacts_recorded_total",
		Help: "Order impact records created, by result.",
	}, []string{"result"})
	savedKg := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "impact_saved_kg_total",
		Help: "Total kilograms of CO2e saved across recorded impacts.",
	})
	badgesAwarded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "badges_awarded_total",
		Help: "Badges awarded, by badge code.",
	}, []string{"badge"})
	consumerFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_consumer_failures_total",
		Help: "Order event handling failures, by stage.",
	}, []string{"stage"})
	reg.MustRegister(impactsRecorded, savedKg, badgesAwarded, consumerFailures)
	return &ImpactMetrics{
		impactsRecorded:  impactsRecorded,
		savedKg:          savedKg,
		badgesAwarded:    badgesAwarded,
		consumerFailures: consumerFailures,
	}
}

// IncImpactRecorded counts a recorded impact with the given result label
// ("created" or "duplicate").
func (m *ImpactMetrics) IncImpactRecorded(result string) {
	if m == nil || m.impactsRecorded == nil {
		return
	}
	m.impactsRecorded.WithLabelValues(normalizeLabel(result)).Inc()
}

// AddSavedKg accumulates saved kilograms from a newly recorded impact.
func (m *ImpactMetrics) AddSavedKg(kg float64) {
	if m == nil || m.savedKg == nil {
		return
	}
	if kg < 0 {
		return
	}
	m.savedKg.Add(kg)
}

// IncBadgeAwarded counts an awarded badge by its code.
func (m *ImpactMetrics) IncBadgeAwarded(code string) {
	if m == nil || m.badgesAwarded == nil {
		return
	}
	m.badgesAwarded.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncConsumerFailure counts a failure in the order event consumer.
func (m *ImpactMetrics) IncConsumerFailure(stage string) {
	if m == nil || m.consumerFailures == nil {
		return
	}
	m.consumerFailures.WithLabelValues(normalizeLabel(stage)).Inc()
}
