package blockstore

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one BlockStore instance. Each
// BlockStore gets its own Metrics so that tests can create independent
// registries instead of colliding on the global default one.
type Metrics struct {
	BlocksTotal      prometheus.Gauge
	BytesTotal       prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers a fresh Metrics against registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		BlocksTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surfstore_blockstore_blocks_total",
			Help: "Number of distinct blocks currently held by this shard.",
		}),
		BytesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surfstore_blockstore_bytes_total",
			Help: "Total bytes of block data currently held by this shard.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surfstore_blockstore_requests_total",
			Help: "Total number of block operations by type and outcome.",
		}, []string{"op", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "surfstore_blockstore_request_duration_seconds",
			Help:    "Latency of block operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}

	registry.MustRegister(m.BlocksTotal, m.BytesTotal, m.RequestsTotal, m.RequestDuration)
	return m
}
