package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics counts outbound API calls made by the storefront client.
type ClientMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qkart",
		Subsystem: "storefront",
		Name:      "api_requests_total",
		Help:      "Total number of storefront API requests.",
	}, []string{"op", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "qkart",
		Subsystem: "storefront",
		Name:      "api_request_duration_ms",
		Help:      "Storefront API request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"op"})

	reg.MustRegister(requests, latency)
	return &ClientMetrics{Requests: requests, LatencyMS: latency}
}

// Serve exposes the registry on addr. Meant for debugging; the TUI starts
// it only when QKART_METRICS_ADDR is set.
func Serve(addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
