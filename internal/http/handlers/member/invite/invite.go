// Package invite implements the HTTP handler for inviting a user to a
// suite.
package invite

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/kweid-platfrom/frontend-sub005/internal/access"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/middlewarectx"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/response"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
	suitesvc "github.com/kweid-platfrom/frontend-sub005/internal/services/suite"
)

// Service describes the invitation contract of the member service.
type Service interface {
	Invite(ctx context.Context, ident *models.Identity, suiteID string, req models.DummyInvite) error
}

// Handler handles member invitation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates an invitation Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Invite a member
// @Description Adds a user to the suite at the given level and queues an invitation email. Requires admin permission.
// @Tags Members
// @Accept  json
// @Produce  json
// @Param id path string true "Suite ID"
// @Param request body models.DummyInvite true "Invitation"
// @Success 200 {object} map[string]any "Invitation accepted"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Insufficient permission"
// @Failure 404 {object} response.ErrorResponse "Suite not found"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Router /suites/{id}/members [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.invite"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	suiteID := chi.URLParam(r, "id")
	if suiteID == "" {
		log.Error("missing suite id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing suite id"))
		return
	}

	var req models.DummyInvite
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

	if err := h.service.Invite(r.Context(), ident, suiteID, req); err != nil {
		var gerr *access.GuardError
		switch {
		case errors.Is(err, suitesvc.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("suite not found"))
		case errors.As(err, &gerr):
			log.Info("invitation denied", slog.String("code", string(gerr.Code)))
			w.WriteHeader(response.GuardStatus(string(gerr.Code)))
			render.JSON(w, r, response.Denied(string(gerr.Code), gerr.Message))
		default:
			log.Error("failed to invite member", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not invite member"))
		}
		return
	}

	log.Info("member invited", slog.String("suite_id", suiteID), slog.String("user_uid", req.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"invited": req.UserUID,
	}))
}
