// @title           Todo API
// @version         1.0
// @description     Account registration, login and owner-scoped todo management.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/api"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/api/handler"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/service"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/infrastructure/config"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/infrastructure/db/memory"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/infrastructure/db/mongo"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/infrastructure/db/postgres"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/infrastructure/db/redis"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/pkg/logger"
)

// storage bundles the repositories of the selected driver with the probes
// and cleanup that come with it.
type storage struct {
	users  ports.UserRepository
	tasks  ports.TaskRepository
	checks map[string]handler.Pinger
	close  func(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "todo-api",
	})

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}

	throttle := openThrottle(ctx, cfg, store, log)

	authService := service.NewAuthService(store.users, throttle, service.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, log)
	taskService := service.NewTaskService(store.tasks, log)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Authenticator: authService,
		Tasks:         taskService,
		Checks:        store.checks,
		Logger:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := store.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close")
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.Name).Msg("connected to postgres")
		return &storage{
			users:  postgres.NewUserRepository(db),
			tasks:  postgres.NewTaskRepository(db),
			checks: map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)},
			close:  func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &storage{
			users:  store.Users(),
			tasks:  store.Tasks(),
			checks: map[string]handler.Pinger{"memory": store},
			close:  func(context.Context) error { return nil },
		}, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("db", cfg.Mongo.Database).Msg("connected to mongo")
		return &storage{
			users: mongo.NewUserRepository(db),
			tasks: mongo.NewTaskRepository(db),
			checks: map[string]handler.Pinger{"mongo": handler.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			})},
			close: client.Disconnect,
		}, nil
	}
}

// openThrottle connects to Redis when enabled and registers its probe. An
// unreachable Redis leaves login unthrottled rather than blocking startup.
func openThrottle(ctx context.Context, cfg *config.Config, store *storage, log zerolog.Logger) ports.LoginThrottle {
	if !cfg.Redis.Enabled {
		log.Info().Msg("redis disabled, login throttling off")
		return nil
	}

	client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, login throttling off")
		return nil
	}

	store.checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	closeStore := store.close
	store.close = func(ctx context.Context) error {
		return errors.Join(closeStore(ctx), client.Close())
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return redis.NewLoginThrottle(client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
}
