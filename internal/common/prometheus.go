package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	ReviewTransitionTotal      = "review_transition_total"
	PointResyncTotal           = "point_resync_total"
	PointResyncDriftTotal      = "point_resync_drift_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		ReviewTransitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ReviewTransitionTotal,
			Help: "Count of price review transitions by source and target status",
		}, []string{"from", "to"}),
		PointResyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PointResyncTotal,
			Help: "Count of user balance resyncs",
		}, []string{"trigger"}),
		PointResyncDriftTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PointResyncDriftTotal,
			Help: "Count of resyncs which found a cached balance different from the ledger",
		}, []string{"trigger"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)

// PromCollectors returns every application vector for registration.
func PromCollectors() []prometheus.Collector {
	result := make([]prometheus.Collector, 0, len(PromCounters)+len(PromHistograms))
	for _, counter := range PromCounters {
		result = append(result, counter)
	}

	for _, histogram := range PromHistograms {
		result = append(result, histogram)
	}

	return result
}
