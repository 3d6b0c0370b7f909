package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trendpress", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trendpress", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	TopicsScraped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "trendpress", Name: "topics_scraped_total", Help: "Number of topics returned by the scraper."},
	)
	TopicOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trendpress", Name: "topic_outcomes_total", Help: "Per-topic outcomes of refresh runs."},
		[]string{"outcome"}, // generated|skipped|generation_failed|store_failed
	)
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trendpress", Name: "refresh_runs_total", Help: "Refresh runs by final status."},
		[]string{"status"},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "trendpress", Name: "refresh_run_duration_seconds", Help: "Wall time of refresh runs.", Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600}},
	)
	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "trendpress", Name: "generation_duration_seconds", Help: "Latency of language model calls.", Buckets: prometheus.ExponentialBuckets(0.5, 2, 9)},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(TopicsScraped)
	reg.MustRegister(TopicOutcomes)
	reg.MustRegister(Runs)
	reg.MustRegister(RunDuration)
	reg.MustRegister(GenerationDuration)
}
