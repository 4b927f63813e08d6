package metadatastore

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one MetadataStore instance.
// Each MetadataStore gets its own Metrics so tests can use independent
// registries instead of colliding on the global default one.
type Metrics struct {
	FilesTrackedTotal   prometheus.Gauge
	ModifyAcceptedTotal prometheus.Counter
	ModifyRejectedTotal *prometheus.CounterVec
	DeleteAcceptedTotal prometheus.Counter
	DeleteRejectedTotal *prometheus.CounterVec
}

// NewMetrics creates and registers a fresh Metrics against registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		FilesTrackedTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surfstore_metadatastore_files_tracked_total",
			Help: "Number of distinct filenames with a metadata record.",
		}),
		ModifyAcceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surfstore_metadatastore_modify_accepted_total",
			Help: "Total modify_file calls that committed successfully.",
		}),
		ModifyRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surfstore_metadatastore_modify_rejected_total",
			Help: "Total modify_file calls rejected, by reason.",
		}, []string{"reason"}),
		DeleteAcceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surfstore_metadatastore_delete_accepted_total",
			Help: "Total delete_file calls that committed successfully.",
		}),
		DeleteRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surfstore_metadatastore_delete_rejected_total",
			Help: "Total delete_file calls rejected, by reason.",
		}, []string{"reason"}),
	}

	registry.MustRegister(m.FilesTrackedTotal, m.ModifyAcceptedTotal, m.ModifyRejectedTotal,
		m.DeleteAcceptedTotal, m.DeleteRejectedTotal)
	return m
}

func (m *Metrics) modifyRejected(reason string) {
	m.ModifyRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) deleteRejected(reason string) {
	m.DeleteRejectedTotal.WithLabelValues(reason).Inc()
}
