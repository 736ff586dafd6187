// Package remove implements the HTTP handler for removing a member from
// a suite.
package remove

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

// Service describes the member removal contract.
type Service interface {
	Remove(ctx context.Context, ident *models.Identity, suiteID, userUID string) error
}

// Handler handles member removal requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a member remove Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Remove a member
// @Description Removes a user from the suite's member lists and permission matrix. Requires admin permission.
// @Tags Members
// @Produce  json
// @Param id path string true "Suite ID"
// @Param uid path string true "User UID"
// @Success 200 {object} map[string]any "Member removed"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 403 {object} response.ErrorResponse "Insufficient permission"
// @Failure 404 {object} response.ErrorResponse "Suite not found"
// @Router /suites/{id}/members/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.remove"
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

	ident := middlewarectx.Identity(r.Context())
	if ident == nil {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), ident, suiteID, userUID); err != nil {
		var gerr *access.GuardError
		switch {
		case errors.Is(err, suitesvc.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("suite not found"))
		case errors.As(err, &gerr):
			log.Info("member removal denied", slog.String("code", string(gerr.Code)))
			w.WriteHeader(response.GuardStatus(string(gerr.Code)))
			render.JSON(w, r, response.Denied(string(gerr.Code), gerr.Message))
		default:
			log.Error("failed to remove member", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove member"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": userUID,
	}))
}
