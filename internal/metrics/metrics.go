// Package metrics exposes the Prometheus instruments for the heritage API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SearchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heritage_searches_total",
		Help: "Total number of nearby-site searches",
	})
	SearchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "heritage_search_duration_ms",
		Help:    "Nearby-site search duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	UpstreamFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heritage_upstream_failures_total",
		Help: "Searches that failed because every geodata endpoint was unavailable",
	})
	EndpointAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heritage_endpoint_attempts_total",
		Help: "Geodata endpoint attempts by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	ElementsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heritage_elements_dropped_total",
		Help: "Raw elements dropped during normalization for lacking coordinates",
	})
	DescribeCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heritage_describe_cache_hits_total",
		Help: "Description requests served from a session cache",
	})
	DescribeCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heritage_describe_cache_misses_total",
		Help: "Description requests that went to the text generator",
	})
	DescribeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heritage_describe_failures_total",
		Help: "Description enrichment attempts that failed upstream",
	})
)

func init() {
	prometheus.MustRegister(
		SearchesTotal,
		SearchDurationMs,
		UpstreamFailuresTotal,
		EndpointAttemptsTotal,
		ElementsDroppedTotal,
		DescribeCacheHitsTotal,
		DescribeCacheMissesTotal,
		DescribeFailuresTotal,
	)
}
