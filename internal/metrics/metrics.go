package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HitsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventboard_hits_recorded_total",
		Help: "Total number of endpoint hits written to the stats store.",
	})

	StatsQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventboard_stats_queries_total",
		Help: "Total number of stats aggregation queries, labelled by unique mode.",
	}, []string{"unique"})

	RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventboard_requests_created_total",
		Help: "Total number of participation requests created, labelled by whether they were auto-confirmed.",
	}, []string{"auto_confirmed"})

	RequestsModerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventboard_requests_moderated_total",
		Help: "Total number of requests transitioned by bulk moderation, labelled by resulting status.",
	}, []string{"status"})

	CascadeRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventboard_cascade_rejections_total",
		Help: "Total number of pending requests auto-rejected after an event reached its participant limit.",
	})

	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventboard_tx_retries_total",
		Help: "Total number of storage transaction retries after serialization failures.",
	})
)
