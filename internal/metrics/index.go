package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Index Prometheus metrics, labelled by index directory.
var (
	IndexDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "textdex",
			Name:      "index_documents",
			Help:      "Committed documents in the index",
		},
		[]string{"path"},
	)

	IndexSizeBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "textdex",
			Name:      "index_size_bytes",
			Help:      "On-disk size of the index directory",
		},
		[]string{"path"},
	)

	IndexVolumeAvailableBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "textdex",
			Name:      "index_volume_available_bytes",
			Help:      "Bytes available to unprivileged users on the index volume",
		},
		[]string{"path"},
	)
)

var registerIndexOnce sync.Once

// RegisterIndexMetrics registers Prometheus index metrics. Safe to call more than once.
func RegisterIndexMetrics() {
	registerIndexOnce.Do(func() {
		prometheus.MustRegister(IndexDocuments)
		prometheus.MustRegister(IndexSizeBytes)
		prometheus.MustRegister(IndexVolumeAvailableBytes)
	})
}

// ObserveIndex records the latest statistics of one index directory.
func ObserveIndex(path string, docs uint64, sizeBytes int64, availableBytes uint64) {
	IndexDocuments.WithLabelValues(path).Set(float64(docs))
	IndexSizeBytes.WithLabelValues(path).Set(float64(sizeBytes))
	IndexVolumeAvailableBytes.WithLabelValues(path).Set(float64(availableBytes))
}
