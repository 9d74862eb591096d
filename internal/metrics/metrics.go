package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mediabot_active_jobs",
		Help: "Number of transfer jobs currently in flight",
	})
	LiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mediabot_live_sessions",
		Help: "Approximate number of live format-selection sessions",
	})
)

// Counters
var (
	JobsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabot_jobs_started_total",
		Help: "Total transfer jobs started",
	})
	JobsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabot_jobs_completed_total",
		Help: "Total transfer jobs that delivered successfully",
	})
	JobsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabot_jobs_failed_total",
		Help: "Total failed transfer jobs by reason",
	}, []string{"reason"})
	JobsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabot_jobs_rejected_total",
		Help: "Selections rejected because the user already had a job in flight",
	})
	BytesDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabot_bytes_delivered_total",
		Help: "Total artifact bytes handed to the messenger",
	})
	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabot_probes_total",
		Help: "Total media probes by outcome",
	}, []string{"outcome"})
	SweptFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabot_swept_files_total",
		Help: "Orphaned artifacts reclaimed by the sweeper",
	})
)
