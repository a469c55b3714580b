// Package metrics provides access to Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedstore"

// Store operation names.
const (
	OpRetrieve = "retrieve"
	OpInsert   = "insert"
	OpDelete   = "delete"
)

// Store operation results.
const (
	ResultOK      = "ok"
	ResultEmpty   = "empty"
	ResultFound   = "found"
	ResultFailure = "failure"
)

// Store
var (
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
		},
		[]string{"op", "result"},
	)
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op"},
	)
	StoreQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "queued_operations",
		},
	)
)

// Codec
var (
	DecodeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "decode_errors_total",
		},
	)
	EncodedRecordSizes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "encoded_record_size_bytes",
			Buckets: []float64{
				1 << 10,   // 1 KiB
				4 << 10,   // 4 KiB
				16 << 10,  // 16 KiB
				64 << 10,  // 64 KiB
				256 << 10, // 256 KiB
				1 << 20,   // 1 MiB
			},
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
