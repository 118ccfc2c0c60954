// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospect_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prospect_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	LeadsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospect_leads_scored_total",
			Help: "Total number of leads scored",
		},
	)

	FitScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prospect_fit_score",
			Help:    "Distribution of lead fit scores",
			Buckets: prometheus.LinearBuckets(40, 5, 12),
		},
	)

	CrawlPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospect_crawl_pages_total",
			Help: "Total number of pages fetched while crawling, by outcome",
		},
		[]string{"outcome"},
	)

	CrawlCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prospect_crawl_cache_hits_total",
			Help: "Total number of crawl responses served from cache",
		},
	)

	SearchResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospect_search_results_total",
			Help: "Total number of raw search results by source",
		},
		[]string{"source"},
	)

	ParseRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospect_parse_requests_total",
			Help: "Total number of prompt parses by method",
		},
		[]string{"method"},
	)
)
