// Package updaterole implements the HTTP handler for changing a suite
// member's permission level.
package updaterole

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

// Service describes the role update contract of the member service.
type Service interface {
	UpdateRole(ctx context.Context, ident *models.Identity, suiteID, userUID, level string) error
}

// Handler handles member role update requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a role update Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Change a member's permission level
// @Description Sets the matrix level of a suite member. Requires admin permission.
// @Tags Members
// @Accept  json
// @Produce  json
// @Param id path string true "Suite ID"
// @Param uid path string true "User UID"
// @Param request body models.DummyRoleUpdate true "New level"
// @Success 200 {object} map[string]any "Level updated"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Insufficient permission"
// @Failure 404 {object} response.ErrorResponse "Suite not found"
// @Router /suites/{id}/members/{uid} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.updaterole"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	suiteID := chi.URLParam(r, "id")
	userUID := chi.URLParam(r, "uid")
	if suiteID == "" || userUID == "" {
		log.Error("missing suite id or user uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing suite id or user uid"))
		return
	}

	var req models.DummyRoleUpdate
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

	if err := h.service.UpdateRole(r.Context(), ident, suiteID, userUID, req.Level); err != nil {
		var gerr *access.GuardError
		switch {
		case errors.Is(err, suitesvc.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("suite not found"))
		case errors.As(err, &gerr):
			log.Info("role update denied", slog.String("code", string(gerr.Code)))
			w.WriteHeader(response.GuardStatus(string(gerr.Code)))
			render.JSON(w, r, response.Denied(string(gerr.Code), gerr.Message))
		default:
			log.Error("failed to update member role", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update member role"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid": userUID,
		"level":    req.Level,
	}))
}
