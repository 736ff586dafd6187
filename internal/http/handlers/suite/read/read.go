// Package read implements the HTTP handler for fetching a single suite.
package read

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

// Service describes the suite read contract.
type Service interface {
	Get(ctx context.Context, ident *models.Identity, id string) (*models.Suite, error)
}

// Handler handles single-suite read requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a suite read Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Get a test suite
// @Description Returns a suite when the caller holds view permission on it.
// @Tags Suites
// @Produce  json
// @Param id path string true "Suite ID"
// @Success 200 {object} map[string]any "Suite"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Access denied"
// @Failure 404 {object} response.ErrorResponse "Suite not found"
// @Router /suites/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.suite.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing suite id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing suite id"))
		return
	}

	ident := middlewarectx.Identity(r.Context())
	if ident == nil {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	suite, err := h.service.Get(r.Context(), ident, id)
	if err != nil {
		var gerr *access.GuardError
		switch {
		case errors.Is(err, suitesvc.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("suite not found"))
		case errors.As(err, &gerr):
			log.Info("suite access denied", slog.String("code", string(gerr.Code)))
			w.WriteHeader(response.GuardStatus(string(gerr.Code)))
			render.JSON(w, r, response.Denied(string(gerr.Code), gerr.Message))
		default:
			log.Error("failed to read suite", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read suite"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"suite": suite,
	}))
}
