package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ModerationVerdictTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_verdicts_total",
			Help: "Moderation verdicts by outcome",
		},
		[]string{"verdict"},
	)

	ClassifierFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_classifier_fallback_total",
			Help: "Safe-search classifier fallbacks by degradation tier",
		},
		[]string{"tier"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_request_duration_seconds",
			Help:    "Moderation request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		ModerationVerdictTotal,
		ClassifierFallbackTotal,
		RequestDuration,
	)
}
