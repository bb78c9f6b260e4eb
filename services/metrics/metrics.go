package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "interview_coach"

// Metrics exposes what operators need to see about stage and storage
// failures that the candidate never sees.
type Metrics struct {
	TurnsProcessed      *prometheus.CounterVec
	ProviderErrors      *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	StageDuration       *prometheus.HistogramVec
	EvaluationsSkipped  prometheus.Counter
	InterviewsCompleted prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TurnsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_processed_total",
			Help:      "Candidate turns processed, by outcome.",
		}, []string{"outcome"}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Language model failures, by stage.",
		}, []string{"stage"}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Audit log writes that failed, by operation.",
		}, []string{"operation"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Language model call latency, by stage.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"stage"}),
		EvaluationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_skipped_total",
			Help:      "Answers scored without calling the evaluator.",
		}),
		InterviewsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_completed_total",
			Help:      "Interviews that reached completion.",
		}),
	}

	reg.MustRegister(
		m.TurnsProcessed,
		m.ProviderErrors,
		m.PersistenceFailures,
		m.StageDuration,
		m.EvaluationsSkipped,
		m.InterviewsCompleted,
	)

	return m
}

// NewUnregistered is for callers that do not export metrics.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
