package kweid

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/kweid-platfrom/frontend-sub005/internal/cache"
	"github.com/kweid-platfrom/frontend-sub005/internal/config"
	"github.com/kweid-platfrom/frontend-sub005/internal/http/handlers/health"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/jwt"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/rabbitmq"
	"github.com/kweid-platfrom/frontend-sub005/internal/lib/sl"
	"github.com/kweid-platfrom/frontend-sub005/internal/migrations"
	authservice "github.com/kweid-platfrom/frontend-sub005/internal/services/auth"
	memberservice "github.com/kweid-platfrom/frontend-sub005/internal/services/member"
	profileservice "github.com/kweid-platfrom/frontend-sub005/internal/services/profile"
	suiteservice "github.com/kweid-platfrom/frontend-sub005/internal/services/suite"
	"github.com/kweid-platfrom/frontend-sub005/internal/storage/repository"

	"github.com/streadway/amqp"
)

// App holds the HTTP server and the resources it owns.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	rabbitConn *amqp.Connection
}

// New builds the application: storage with migrations, redis cache,
// rabbitmq publisher and the service graph behind the chi router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitMQURL, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker, cfg.TrialDays)
	profileService := profileservice.New(db, cacheRedis, logger, cfg.ProfileCacheTTL)
	suiteService := suiteservice.New(db, cacheRedis, profileService, logger, cfg.SuiteCacheTTL)
	memberService := memberservice.New(db, cacheRedis, profileService, publisher, logger)

	healthChecks := map[string]health.Checker{
		"postgres": func() error { return repository.CheckDatabaseReady(db) },
		"redis":    func() error { return cacheRedis.Db.Ping(context.Background()).Err() },
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, profileService, suiteService, memberService, db, healthChecks)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		rabbitConn: rabbitConn,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and closes the owned connections.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Warn("failed to close database", sl.Err(cerr))
		}
		if cerr := a.rabbitConn.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(cerr))
		}
		return err
	}
}
