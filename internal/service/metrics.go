package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worldchat_messages_sent_total",
			Help: "Messages fully persisted (blob stored and record indexed)",
		},
	)

	sendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worldchat_send_failures_total",
			Help: "Send failures by pipeline stage",
		},
		[]string{"stage"},
	)

	blobFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worldchat_blob_fetch_failures_total",
			Help: "Blob retrievals degraded to fallback records during load",
		},
	)

	loadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "worldchat_load_duration_seconds",
			Help:    "Wall-clock duration of load operations",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)
