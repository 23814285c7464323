package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	RatingsRecorded     *prometheus.CounterVec
	PillarAutoFails     prometheus.Counter
	DecisionsCalculated *prometheus.CounterVec
	DecisionDuration    prometheus.Histogram
	CyclesOpened        prometheus.Counter
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RatingsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certus_ratings_recorded_total",
			Help: "Total criterion ratings recorded, by rating value",
		}, []string{"rating"}),
		PillarAutoFails: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certus_pillar_auto_fails_total",
			Help: "Total pillar aggregations that triggered an auto-fail",
		}),
		DecisionsCalculated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certus_decisions_calculated_total",
			Help: "Total certification decisions calculated, by outcome",
		}, []string{"outcome"}),
		DecisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certus_decision_calculation_seconds",
			Help:    "Time spent calculating certification decisions",
			Buckets: prometheus.DefBuckets,
		}),
		CyclesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certus_cycles_opened_total",
			Help: "Total certification cycles opened",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certus_assessment_cache_hits_total",
			Help: "Assessment list reads served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certus_assessment_cache_misses_total",
			Help: "Assessment list reads that missed the cache",
		}),
	}
}

// ObserveDecisionDuration records one decision calculation duration.
func (m *Metrics) ObserveDecisionDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.DecisionDuration.Observe(d.Seconds())
}

// IncRatingRecorded increments the rating counter for a rating value.
func (m *Metrics) IncRatingRecorded(rating string) {
	if m == nil {
		return
	}
	m.RatingsRecorded.WithLabelValues(rating).Inc()
}

// IncDecisionCalculated increments the decision counter for an outcome.
func (m *Metrics) IncDecisionCalculated(outcome string) {
	if m == nil {
		return
	}
	m.DecisionsCalculated.WithLabelValues(outcome).Inc()
}
