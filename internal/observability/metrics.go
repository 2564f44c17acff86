package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/fishctl/internal/fish"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	valuesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fishctl",
			Subsystem: "link",
			Name:      "values_sent_total",
			Help:      "Tagged values written to the engine socket.",
		},
		[]string{"tag"},
	)
	valuesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fishctl",
			Subsystem: "link",
			Name:      "values_received_total",
			Help:      "Tagged values read from the engine socket.",
		},
		[]string{"tag"},
	)
	handshakeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fishctl",
			Subsystem: "link",
			Name:      "handshake_failures_total",
			Help:      "Connections that never produced a valid fishcode.",
		},
	)
	logRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fishctl",
			Subsystem: "logfile",
			Name:      "records_total",
			Help:      "Records decoded from .fish binary logs.",
		},
		[]string{"tag"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fishctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin-plane HTTP requests.",
		},
		[]string{"component", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fishctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin-plane HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			valuesSent,
			valuesReceived,
			handshakeFailures,
			logRecords,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordValueSent(tag fish.Tag) {
	RegisterMetrics()
	valuesSent.WithLabelValues(tag.String()).Inc()
}

func RecordValueReceived(tag fish.Tag) {
	RegisterMetrics()
	valuesReceived.WithLabelValues(tag.String()).Inc()
}

func RecordHandshakeFailure() {
	RegisterMetrics()
	handshakeFailures.Inc()
}

func RecordLogRecord(tag fish.Tag) {
	RegisterMetrics()
	logRecords.WithLabelValues(tag.String()).Inc()
}

func RecordHTTPRequest(component, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(component, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(component, method, path, statusLabel).Observe(duration.Seconds())
}
