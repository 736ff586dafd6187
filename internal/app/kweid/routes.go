// Package kweid wires the storage, cache, messaging and services into
// the HTTP application.
package kweid

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	accesscheck "github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/access/check"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/auth/login"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/auth/register"
	entstatus "github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/entitlement/status"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/health"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/member/invite"
	memberremove "github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/member/remove"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/member/updaterole"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/suite/create"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/suite/list"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/suite/read"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/suite/remove"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/suite/update"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/middlewarectx"
	authservice "github.com/kweid-platfrom/frontend-sub005/internal/services/auth"
	memberservice "github.com/kweid-platfrom/frontend-sub005/internal/services/member"
	profileservice "github.com/kweid-platfrom/frontend-sub005/internal/services/profile"
	suiteservice "github.com/kweid-platfrom/frontend-sub005/internal/services/suite"
	"github.com/kweid-platfrom/frontend-sub005/internal/storage/repository"
)

// RegisterRoutes registers every route of the application.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	profileService *profileservice.Service,
	suiteService *suiteservice.Service,
	memberService *memberservice.Service,
	store *repository.Storage,
	healthChecks map[string]health.Checker,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, healthChecks).ServeHTTP)

		// JWT-protected group
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/suites", create.New(logger, suiteService).ServeHTTP)
			r.Get("/suites", list.New(logger, suiteService).ServeHTTP)
			r.Get("/suites/{id}", read.New(logger, suiteService).ServeHTTP)
			r.Put("/suites/{id}", update.New(logger, suiteService).ServeHTTP)
			r.Delete("/suites/{id}", remove.New(logger, suiteService).ServeHTTP)
			r.Get("/suites/{id}/access", accesscheck.New(logger, suiteService).ServeHTTP)

			r.Post("/suites/{id}/members", invite.New(logger, memberService).ServeHTTP)
			r.Put("/suites/{id}/members/{uid}", updaterole.New(logger, memberService).ServeHTTP)
			r.Delete("/suites/{id}/members/{uid}", memberremove.New(logger, memberService).ServeHTTP)

			r.Get("/entitlements", entstatus.New(logger, profileService, store).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
