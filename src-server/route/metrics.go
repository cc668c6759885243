package route

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics serves the collectors registered on g in the Prometheus text format.
func Metrics(muxer *http.ServeMux, g prometheus.Gatherer) {
	muxer.Handle("GET /metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
