package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jsh/session"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Shell metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	TerminalsActive prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
	WSThrottled   prometheus.Counter

	// Upload metrics
	UploadedBytes prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors on reg. A nil reg uses a fresh
// registry, which keeps tests independent of the global default.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsh_commands_total",
				Help: "Total number of dispatched commands",
			},
			[]string{"command", "outcome"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jsh_command_duration_seconds",
				Help:    "Command dispatch duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"command"},
		),
		TerminalsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "jsh_terminals_active",
				Help: "Number of live terminals",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "jsh_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsh_ws_messages_total",
				Help: "Total number of WebSocket messages by service",
			},
			[]string{"service"},
		),
		WSThrottled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "jsh_ws_throttled_total",
				Help: "Total number of WebSocket messages dropped by the rate limiter",
			},
		),

		UploadedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "jsh_uploaded_bytes_total",
				Help: "Total number of bytes written into trees by uploads",
			},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsh_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jsh_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveCommand records one dispatch. Unknown commands share one label so
// arbitrary user input cannot grow the label set.
func (m *Metrics) ObserveCommand(name string, kind session.ErrorKind, elapsed time.Duration) {
	if kind == session.KindUnknownCommand || name == "" {
		name = "unknown"
	}
	m.CommandsTotal.WithLabelValues(name, kind.String()).Inc()
	m.CommandDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

func (m *Metrics) IncTerminals() { m.TerminalsActive.Inc() }

func (m *Metrics) DecTerminals() { m.TerminalsActive.Dec() }

func (m *Metrics) IncWSConnections() { m.WSConnections.Inc() }

func (m *Metrics) DecWSConnections() { m.WSConnections.Dec() }

// RecordWSMessage counts a message routed to service.
func (m *Metrics) RecordWSMessage(service string) {
	m.WSMessages.WithLabelValues(service).Inc()
}

func (m *Metrics) RecordThrottled() { m.WSThrottled.Inc() }

func (m *Metrics) RecordUpload(n int) {
	m.UploadedBytes.Add(float64(n))
}

// RecordHTTPRequest records one served request. Websocket requests are
// recorded when the connection ends.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
