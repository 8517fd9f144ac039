package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sigbox", Name: "api_requests_total", Help: "Signaturbox API requests by method, resource and status code."},
		[]string{"method", "resource", "code"},
	)
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "sigbox", Name: "api_request_duration_seconds", Help: "Signaturbox API request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "resource"},
	)
	Documents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sigbox", Name: "documents_total", Help: "Documents handled by the workflow by result."},
		[]string{"result"},
	)
)

// Document results.
const (
	ResultUploaded   = "uploaded"
	ResultDownloaded = "downloaded"
	ResultFailed     = "failed"
)

// CodeTransportError labels requests that never produced a status code.
const CodeTransportError = "error"

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(APIRequests)
	reg.MustRegister(APIRequestDuration)
	reg.MustRegister(Documents)
}

// NewRegistry returns a registry carrying the client collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)
	return reg
}

// ObserveRequest records one API call. A status of 0 means the transport failed.
func ObserveRequest(method, resource string, status int, elapsed time.Duration) {
	code := CodeTransportError
	if status > 0 {
		code = strconv.Itoa(status)
	}
	APIRequests.WithLabelValues(method, resource, code).Inc()
	APIRequestDuration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
