package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MeteringCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawtrail_metering_commits_total",
		Help: "Committed metering units of work",
	}, []string{"kind"})

	MeteringRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawtrail_metering_rejections_total",
		Help: "Units of work rejected before commit",
	}, []string{"reason"})

	MeteringRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawtrail_metering_rollbacks_total",
		Help: "Units of work rolled back by a mutation failure or timeout",
	}, []string{"kind"})

	UnitOfWorkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pawtrail_unit_of_work_duration_seconds",
		Help:    "Duration of committed units of work",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)
