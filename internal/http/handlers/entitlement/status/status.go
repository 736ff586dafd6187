// Package status implements the HTTP handler returning the caller's
// evaluated subscription capabilities.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kweid-platfrom/frontend-sub005/internal/entitlement"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/middlewarectx"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/response"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// Service evaluates capabilities for a user.
type Service interface {
	Evaluate(ctx context.Context, uid string) (entitlement.Capabilities, *models.UserProfile, error)
}

// SuiteCounter reports how many suites a user currently owns.
type SuiteCounter interface {
	CountOwnedSuites(ctx context.Context, userUID string) (int, error)
}

// Handler handles entitlement status requests.
type Handler struct {
	log     *slog.Logger
	service Service
	counter SuiteCounter
}

// New creates an entitlement status Handler.
func New(log *slog.Logger, service Service, counter SuiteCounter) *Handler {
	return &Handler{log: log, service: service, counter: counter}
}

// ServeHTTP godoc
// @Summary Current subscription capabilities
// @Description Returns the caller's evaluated tier limits, feature flags and whether another suite can be created right now.
// @Tags Entitlements
// @Produce  json
// @Success 200 {object} map[string]any "Capabilities"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /entitlements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident := middlewarectx.Identity(r.Context())
	if ident == nil {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	caps, prof, err := h.service.Evaluate(r.Context(), ident.UID)
	if err != nil {
		log.Error("failed to evaluate capabilities", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not evaluate capabilities"))
		return
	}

	count, err := h.counter.CountOwnedSuites(r.Context(), ident.UID)
	if err != nil {
		log.Error("failed to count owned suites", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not evaluate capabilities"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"capabilities":     caps,
		"suite_count":      count,
		"can_create_suite": entitlement.CanCreateSuite(prof, &caps, count),
	}))
}
