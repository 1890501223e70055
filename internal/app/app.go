// Package app wires configuration, storage, services and the HTTP layer into
// a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	_ "github.com/dsalta/compliance-api/docs"
	"github.com/dsalta/compliance-api/internal/api"
	"github.com/dsalta/compliance-api/internal/api/handler"
	"github.com/dsalta/compliance-api/internal/api/metrics"
	"github.com/dsalta/compliance-api/internal/core/bus"
	"github.com/dsalta/compliance-api/internal/core/service"
	"github.com/dsalta/compliance-api/internal/core/tasks"
	"github.com/dsalta/compliance-api/internal/infrastructure/config"
	"github.com/dsalta/compliance-api/internal/infrastructure/db/mongo"
	"github.com/dsalta/compliance-api/internal/infrastructure/db/redis"
	"github.com/dsalta/compliance-api/internal/infrastructure/queue"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Application owns every long-lived dependency of the service.
type Application struct {
	cfg *config.Config
	log zerolog.Logger

	mongoClient *mongodrv.Client
	redisClient *goredis.Client

	users      *service.CredentialStore
	dispatcher *queue.Dispatcher
	server     *http.Server
}

// New connects to MongoDB and Redis, ensures indexes and builds the service
// graph. Call Close when done, even if Run was never called.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, error) {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	a := &Application{cfg: cfg, log: log, mongoClient: mongoClient}

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.redisClient, err = redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	if err := a.build(db); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *Application) build(db *mongodrv.Database) error {
	users, err := service.NewCredentialStore(mongo.NewUserRepository(db), a.cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	a.users = users

	tokens := service.NewTokenService(a.cfg.JWT.Secret, a.cfg.JWT.ExpiresIn, a.cfg.JWT.Issuer)
	revoked := redis.NewRevocationList(a.redisClient)
	authSvc := service.NewAuthService(users, tokens, revoked, a.log)
	authenticator := service.NewAuthenticator(tokens, users, revoked)

	taskRepo := mongo.NewTaskRepository(db)
	eventRepo := mongo.NewTaskEventRepository(db)

	b := bus.New()
	b.Use(bus.Logging(a.log), metrics.BusMiddleware())
	tasks.NewHandlers(taskRepo, eventRepo).Register(b)
	if err := b.Require(tasks.AllKinds...); err != nil {
		return err
	}

	a.dispatcher = queue.NewDispatcher(a.cfg.Audit.Workers, service.NewAuditService(eventRepo, a.log), a.log)
	taskSvc := tasks.NewService(b, a.dispatcher, a.log)

	router := api.NewRouter(api.Deps{
		Log:           a.log,
		BasePath:      a.cfg.BasePath(),
		Auth:          authSvc,
		Authenticator: authenticator,
		Tasks:         taskSvc,
		Health: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return a.mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return a.redisClient.Ping(ctx).Err() },
		},
	})

	a.server = &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return nil
}

// Seed creates the default accounts that are missing.
func (a *Application) Seed(ctx context.Context) (int, error) {
	seeder := service.NewSeeder(a.users, a.log)
	return seeder.Seed(ctx, service.DefaultSeedUsers(a.cfg.Seed.AdminPassword, a.cfg.Seed.UserPassword))
}

// Run serves HTTP and processes audit events until ctx is cancelled or the
// server fails. The server is shut down before the audit workers stop so
// that events from in-flight requests are still stored.
func (a *Application) Run(ctx context.Context) error {
	auditCtx, stopAudit := context.WithCancel(context.WithoutCancel(ctx))
	defer stopAudit()
	a.dispatcher.Start(auditCtx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().
			Str("addr", a.server.Addr).
			Str("base_path", a.cfg.BasePath()).
			Str("env", a.cfg.Env).
			Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(shutdownCtx)
		if err != nil {
			a.log.Error().Err(err).Msg("graceful http shutdown failed")
		}

		stopAudit()
		a.dispatcher.Wait()
		a.log.Info().Msg("audit workers stopped")
		return err
	})

	return g.Wait()
}

// Close releases the database connections.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo disconnect: %w", err))
		}
	}
	return errors.Join(errs...)
}
