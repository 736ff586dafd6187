// Package create implements the HTTP handler for creating test suites.
//
// The handler decodes and validates the request, extracts the caller's
// identity from the context and delegates to the suite service, which
// runs the authoritative subscription-limit check right before the
// write.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/kweid-platfrom/frontend-sub005/internal/http/middlewarectx"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/response"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
	suitesvc "github.com/kweid-platfrom/frontend-sub005/internal/services/suite"
)

// Service describes the suite creation contract.
type Service interface {
	Create(ctx context.Context, ident *models.Identity, req models.DummySuite) (*models.Suite, error)
}

// Handler handles suite creation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a suite creation Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Create a test suite
// @Description Creates a new test suite for the current user. Rejected when the subscription suite limit is reached.
// @Tags Suites
// @Accept  json
// @Produce  json
// @Param request body models.DummySuite true "Suite data"
// @Success 200 {object} map[string]any "Created suite"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Suite limit reached"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /suites [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.suite.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySuite
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ident := middlewarectx.Identity(r.Context())
	if ident == nil {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	suite, err := h.service.Create(r.Context(), ident, req)
	if err != nil {
		if errors.Is(err, suitesvc.ErrSuiteLimitReached) {
			log.Info("suite creation rejected by subscription limit", slog.String("uid", ident.UID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("suite limit reached, upgrade your plan to create more suites"))
			return
		}
		log.Error("failed to create suite", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create suite"))
		return
	}

	log.Info("created suite", slog.String("id", suite.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"suite": suite,
	}))
}
