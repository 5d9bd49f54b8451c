package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the relay. Registered on the default registry and
// served by the /metrics endpoint.
var (
	// ConnectedClients tracks open WebSocket connections, identified or not.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orbitaldaggers_connected_clients",
		Help: "Number of open WebSocket connections",
	})

	// ActiveSessions tracks sessions currently registered by id.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orbitaldaggers_active_sessions",
		Help: "Number of registered player sessions",
	})

	// MessagesDispatched counts inbound messages routed to a handler, by type.
	MessagesDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbitaldaggers_messages_dispatched_total",
		Help: "Inbound messages dispatched, labelled by message type",
	}, []string{"type"})

	// ParseFailures counts inbound frames that failed JSON parsing.
	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbitaldaggers_parse_failures_total",
		Help: "Inbound frames rejected as invalid JSON",
	})

	// BroadcastsSent counts individual outbound frames delivered by fan-out.
	BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbitaldaggers_broadcasts_sent_total",
		Help: "Outbound frames delivered by map or lobby fan-out",
	})

	// SendFailures counts outbound frames that could not be written.
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orbitaldaggers_send_failures_total",
		Help: "Outbound frames dropped due to a send error",
	})
)
