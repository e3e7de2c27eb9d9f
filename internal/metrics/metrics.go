// Package metrics exposes query counters to Prometheus and keeps a rolling
// latency window for the stats endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hq_queries_total",
			Help: "Total number of queries, labeled by selector kind and outcome.",
		},
		[]string{"kind", "status"},
	)
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hq_query_duration_seconds",
			Help:    "Duration of queries in seconds, including source resolution.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	QueryResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hq_query_results_total",
			Help: "Total number of values returned by successful queries.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryResults)
}

// ObserveQuery records one query in the Prometheus collectors.
func ObserveQuery(kind, status string, d time.Duration, results int) {
	QueriesTotal.WithLabelValues(kind, status).Inc()
	QueryDuration.WithLabelValues(kind).Observe(d.Seconds())
	if status == "ok" {
		QueryResults.WithLabelValues(kind).Add(float64(results))
	}
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
