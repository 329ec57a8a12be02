// Package metrics holds Prometheus instruments that are used across the
// site.  All collectors are registered with the global registry, so
// mounting promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"})

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests, by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})

	PageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_errors_total",
			Help: "Page pipeline failures answered with 500, by page and error kind.",
		}, []string{"page", "kind"})

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Statement execution time including row iteration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"statement"})

	LockWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_lock_wait_seconds",
			Help:    "Time spent waiting for the shared database connection.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		})

	TemplateReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_reloads_total",
			Help: "Template set reloads, by result.",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		PageErrorsTotal,
		QueryDuration,
		LockWait,
		TemplateReloadsTotal,
	)
}
