// Package observability provides Prometheus metrics, logging and tracing setup.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prophet-ai/internal/domain"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Feed metrics
	FramesReceived    prometheus.Counter
	FramesDiscarded   *prometheus.CounterVec
	TokensObserved    prometheus.Counter
	ReconnectsTotal   prometheus.Counter
	ConnectionState   *prometheus.GaugeVec
	BufferSize        prometheus.Gauge
	FrameLatency      prometheus.Histogram
	LastTokenObserved prometheus.Gauge

	// Oracle metrics
	OracleQueries *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "prophet_ai"
	}
	factory := promauto.With(reg)

	return &Metrics{
		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "frames_received_total",
			Help:      "Total number of text frames received from the feed",
		}),
		FramesDiscarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "frames_discarded_total",
			Help:      "Total number of frames discarded by reason",
		}, []string{"reason"}),
		TokensObserved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "tokens_observed_total",
			Help:      "Total number of token-creation events accepted into the buffer",
		}),
		ReconnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "reconnects_scheduled_total",
			Help:      "Total number of reconnect attempts scheduled",
		}),
		ConnectionState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "connection_state",
			Help:      "Current feed connection state (1 for the active state)",
		}, []string{"state"}),
		BufferSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "buffer_size",
			Help:      "Current number of tokens in the display buffer",
		}),
		FrameLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "frame_handling_latency_seconds",
			Help:      "Time spent parsing and buffering a single frame",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		LastTokenObserved: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_token_observed_timestamp",
			Help:      "Unix timestamp of the last accepted token",
		}),

		OracleQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "queries_total",
			Help:      "Total number of oracle queries by matched intent",
		}, []string{"intent"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", prometheus.DefaultRegisterer)

// RecordFrameReceived increments the frames received counter.
func RecordFrameReceived() {
	DefaultMetrics.FramesReceived.Inc()
}

// RecordFrameDiscarded records a frame dropped before reaching the buffer.
func RecordFrameDiscarded(reason string) {
	DefaultMetrics.FramesDiscarded.WithLabelValues(reason).Inc()
}

// RecordTokenObserved records an accepted token and the resulting buffer size.
func RecordTokenObserved(t domain.ObservedToken, bufferSize int) {
	DefaultMetrics.TokensObserved.Inc()
	DefaultMetrics.BufferSize.Set(float64(bufferSize))
	DefaultMetrics.LastTokenObserved.Set(float64(t.ObservedAt.Unix()))
}

// RecordFrameLatency records frame handling latency.
func RecordFrameLatency(seconds float64) {
	DefaultMetrics.FrameLatency.Observe(seconds)
}

// RecordReconnectScheduled increments the reconnects counter.
func RecordReconnectScheduled() {
	DefaultMetrics.ReconnectsTotal.Inc()
}

// SetConnState marks state as the active connection state.
func SetConnState(state domain.ConnState) {
	for _, s := range []domain.ConnState{domain.ConnDisconnected, domain.ConnConnecting, domain.ConnConnected} {
		v := 0.0
		if s == state {
			v = 1
		}
		DefaultMetrics.ConnectionState.WithLabelValues(s.String()).Set(v)
	}
}

// RecordOracleQuery records an oracle query by intent.
func RecordOracleQuery(intent string) {
	DefaultMetrics.OracleQueries.WithLabelValues(intent).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(route string, code int) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
