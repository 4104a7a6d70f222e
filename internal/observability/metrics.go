package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zplctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zplctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	encodeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zplctl",
			Subsystem: "codec",
			Name:      "encodes_total",
			Help:      "Graphic-field encode operations.",
		},
		[]string{"format", "success"},
	)
	decodeFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zplctl",
			Subsystem: "codec",
			Name:      "decoded_fields_total",
			Help:      "Graphic fields recovered or skipped during decode.",
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, encodeOps, decodeFields)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordEncode(format string, success bool) {
	RegisterMetrics()
	encodeOps.WithLabelValues(format, strconv.FormatBool(success)).Inc()
}

func RecordDecodeFields(recovered, skipped int) {
	RegisterMetrics()
	decodeFields.WithLabelValues("recovered").Add(float64(recovered))
	decodeFields.WithLabelValues("skipped").Add(float64(skipped))
}
