// Package middlewarectx contains the HTTP middleware of the service and
// the context keys it populates.
//
// JWTMiddleware checks the Authorization header, validates the token
// through the auth service and stores the caller's identity in the
// request context for the handlers.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/kweid-platfrom/frontend-sub005/internal/http/response"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/models"
)

// Key is the type for request context keys.
type Key string

// User is the context key holding the authenticated *models.Identity.
const User Key = "user"

// Service describes the token validation contract of the auth service.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.Identity, error)
}

// Identity extracts the authenticated identity from a request context,
// or nil when the request is unauthenticated.
func Identity(ctx context.Context) *models.Identity {
	ident, _ := ctx.Value(User).(*models.Identity)
	return ident
}

// JWTMiddleware returns middleware that validates the bearer token and
// stores the caller's identity in the request context. Requests without
// a valid token get 401 Unauthorized.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.JWTMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			ident, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
