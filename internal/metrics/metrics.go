package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitramandal_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mitramandal_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Read cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitramandal_cache_lookups_total",
			Help: "Read cache lookups by partition and result",
		},
		[]string{"partition", "result"}, // result: "hit", "miss"
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mitramandal_cache_entries",
			Help: "Entries currently held per read cache partition",
		},
		[]string{"partition"},
	)

	CacheReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitramandal_cache_reloads_total",
			Help: "Full read cache reload passes",
		},
		[]string{"status"},
	)

	// Ledger
	LedgerTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitramandal_ledger_transactions_total",
			Help: "Ledger transactions written by type and operation",
		},
		[]string{"type", "operation"}, // operation: "create", "update", "delete"
	)

	// Jobs
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mitramandal_job_runs_total",
			Help: "Scheduled job executions",
		},
		[]string{"job", "status"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordCacheLookup(partition string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(partition, result).Inc()
}

func RecordJob(job string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	JobRuns.WithLabelValues(job, status).Inc()
}
