// Package check implements the HTTP handler exposing the full
// authorization decision for a suite and action.
package check

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kweid-platfrom/frontend-sub005/internal/access"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/middlewarectx"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/response"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
	suitesvc "github.com/kweid-platfrom/frontend-sub005/internal/services/suite"
)

// Service resolves authorization decisions.
type Service interface {
	CheckAccess(ctx context.Context, ident *models.Identity, id, action string) (access.Decision, error)
}

// Handler handles access check requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates an access check Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Check access to a suite
// @Description Returns the full authorization decision for the caller, the suite and the requested action, including the denial code when access is refused. Unknown suites still produce a decision rather than a 404.
// @Tags Access
// @Produce  json
// @Param id path string true "Suite ID"
// @Param action query string false "Action to check" default(view)
// @Success 200 {object} map[string]any "Decision"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /suites/{id}/access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	action := r.URL.Query().Get("action")
	if action == "" {
		action = "view"
	}

	ident := middlewarectx.Identity(r.Context())
	if ident == nil {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	dec, err := h.service.CheckAccess(r.Context(), ident, id, action)
	if err != nil {
		if errors.Is(err, suitesvc.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("suite not found"))
			return
		}
		log.Error("failed to check access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check access"))
		return
	}

	render.JSON(w, r, response.OKWithData(dec))
}
