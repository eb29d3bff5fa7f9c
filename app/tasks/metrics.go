package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeRetry   = "retry"
	outcomeDropped = "dropped"
)

var (
	taskRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "potus_tracker",
		Name:      "task_runs_total",
		Help:      "Background task executions by type and outcome.",
	}, []string{"type", "outcome"})

	taskDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "potus_tracker",
		Name:      "task_duration_seconds",
		Help:      "Background task execution time.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"type"})

	recordsStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "potus_tracker",
		Name:      "records_stored_total",
		Help:      "Orders and schedule events written per source.",
	}, []string{"source", "kind"})

	ordersRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "potus_tracker",
		Name:      "orders_rendered_total",
		Help:      "Order full-text renders by status.",
	}, []string{"status"})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "potus_tracker",
		Name:      "task_queue_depth",
		Help:      "Tasks waiting in the scheduler queue.",
	})
)

func init() {
	prometheus.MustRegister(taskRuns, taskDuration, recordsStored, ordersRendered, queueDepth)
}
