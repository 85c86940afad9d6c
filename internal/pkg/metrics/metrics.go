package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio_bot"

// Request outcomes.
const (
	OutcomeRendered         = "rendered"
	OutcomeMalformedAddress = "malformed_address"
	OutcomeUpstreamError    = "upstream_error"
	OutcomeNoWallet         = "no_wallet"
)

// Metrics implements port.Metrics with Prometheus collectors.
type Metrics struct {
	requests      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	blocks        prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Portfolio requests by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Latency of portfolio API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_blocks_total",
			Help:      "Message blocks rendered for delivery.",
		}),
	}
	reg.MustRegister(m.requests, m.fetchDuration, m.blocks)
	return m
}

// ObserveRequest counts one request with the given outcome.
func (m *Metrics) ObserveRequest(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

// ObserveFetch records an upstream call.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetchDuration.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveBlocks counts rendered blocks.
func (m *Metrics) ObserveBlocks(n int) {
	m.blocks.Add(float64(n))
}
