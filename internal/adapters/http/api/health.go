package api

import (
	"net/http"

	"github.com/okian/nestudio/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	exposition http.Handler
}

// NewHealthHandler creates a new health handler over the site registry.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		exposition: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz and /metrics. A process that can render
// its own registry is healthy, so both routes answer with the exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.exposition.ServeHTTP(w, r)
}
