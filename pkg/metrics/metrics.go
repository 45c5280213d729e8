// Package metrics holds the Prometheus collectors and expvar counters of the API.
package metrics

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeModel    = "model"
	OutcomeFallback = "fallback"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lincup",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lincup",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lincup",
			Name:      "recommendations_total",
			Help:      "Club recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	ReviewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lincup",
			Name:      "course_reviews_total",
			Help:      "Course reviews accepted",
		},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lincup",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate-limit policy",
		},
		[]string{"policy"},
	)

	// mirrored on /debug/vars
	recommendations = expvar.NewMap("recommendations")
)

func init() {
	prometheus.MustRegister(RequestsTotal, RequestDuration, RecommendationsTotal, ReviewsTotal, RateLimitedTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method, route, status string, d time.Duration) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordRecommendation(outcome string) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	recommendations.Add(outcome, 1)
}

func RecordRateLimited(policy string) {
	RateLimitedTotal.WithLabelValues(policy).Inc()
}

// RecommendationCount reads the expvar mirror of RecommendationsTotal.
func RecommendationCount(outcome string) int64 {
	if v, ok := recommendations.Get(outcome).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}
