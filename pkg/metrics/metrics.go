package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobify_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// IngestedReadings counts sensor readings accepted through the ingest gateway.
	IngestedReadings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobify_ingested_readings_total",
			Help: "Total number of readings accepted by the ingest gateway",
		},
	)

	// RejectedIngests counts ingest requests refused for a bad shared key.
	RejectedIngests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobify_rejected_ingests_total",
			Help: "Total number of ingest requests rejected for authorization",
		},
	)

	// RelayConnections tracks currently open telemetry relay connections.
	RelayConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wardrobify_relay_connections",
			Help: "Number of open telemetry relay connections",
		},
	)
)
