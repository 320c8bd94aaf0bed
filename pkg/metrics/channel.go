package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ChannelMetrics tracks outbound marketplace API calls.
type ChannelMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	retries  *prometheus.CounterVec
}

// NewChannelMetrics registers the channel adapter metrics.
func NewChannelMetrics(reg prometheus.Registerer) *ChannelMetrics {
	if reg == nil {
		return &ChannelMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_requests_total",
		Help: "Marketplace API calls by action and HTTP status.",
	}, []string{"action", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "channel_request_duration_seconds",
		Help:    "Marketplace API call latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_request_retries_total",
		Help: "Retries performed against the marketplace API.",
	}, []string{"action"})
	reg.MustRegister(requests, latency, retries)
	return &ChannelMetrics{
		requests: requests,
		latency:  latency,
		retries:  retries,
	}
}

// ObserveRequest records one completed call.
func (m *ChannelMetrics) ObserveRequest(action string, status int, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(action), strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(normalizeLabel(action)).Observe(duration.Seconds())
}

// IncRetry counts a retry attempt for the action.
func (m *ChannelMetrics) IncRetry(action string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(normalizeLabel(action)).Inc()
}
