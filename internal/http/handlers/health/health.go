// Package health implements the readiness endpoint.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/kweid-platfrom/frontend-sub005/internal/http/response"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
)

// Checker reports whether a dependency is ready.
type Checker func() error

// Handler answers readiness probes by running the registered checks.
type Handler struct {
	log    *slog.Logger
	checks map[string]Checker
}

// New creates a health Handler with named dependency checks.
func New(log *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{log: log, checks: checks}
}

// ServeHTTP godoc
// @Summary Readiness probe
// @Description Reports whether the service and its dependencies are ready.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "All checks passed"
// @Failure 503 {object} response.ErrorResponse "A dependency is not ready"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for name, check := range h.checks {
		if err := check(); err != nil {
			h.log.Error("health check failed", slog.String("check", name), sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("dependency not ready: "+name))
			return
		}
	}
	render.JSON(w, r, response.OKWithData(map[string]any{"healthy": true}))
}
