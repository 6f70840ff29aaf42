// Package main is the entry point for the Forkful web server.
// It serves the full site: server-rendered pages plus the AJAX
// endpoints for ratings, favorites and comments.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appcontact "github.com/forkful/v1/internal/application/contact"
	apprecipe "github.com/forkful/v1/internal/application/recipe"
	appuser "github.com/forkful/v1/internal/application/user"
	"github.com/forkful/v1/internal/infrastructure/config"
	"github.com/forkful/v1/internal/infrastructure/http/webserver"
	"github.com/forkful/v1/internal/infrastructure/monitoring"
	gormpersistence "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/internal/infrastructure/persistence/memory"
	redispersistence "github.com/forkful/v1/internal/infrastructure/persistence/redis"
	"github.com/forkful/v1/internal/infrastructure/storage"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/pkg/healthcheck"
	"github.com/forkful/v1/pkg/logger"
)

func main() {
	app := fx.New(
		fx.NopLogger,

		fx.Provide(func() (*config.Config, error) {
			return config.Load(os.Getenv("FORKFUL_CONFIG"))
		}),

		fx.Provide(func(cfg *config.Config) (*zap.Logger, error) {
			return logger.New(logger.Config{
				Level:       cfg.App.LogLevel,
				Format:      cfg.App.LogFormat,
				Development: cfg.App.Debug,
			})
		}),

		fx.Provide(openDatabase),
		fx.Provide(newCache),

		// Repositories
		fx.Provide(gormpersistence.NewRecipeRepository),
		fx.Provide(gormpersistence.NewCommentRepository),
		fx.Provide(gormpersistence.NewUserRepository),
		fx.Provide(gormpersistence.NewTaxonomyRepository),
		fx.Provide(gormpersistence.NewActivityRepository),
		fx.Provide(gormpersistence.NewContactRepository),

		fx.Provide(func(cfg *config.Config, log *zap.Logger) (outbound.StorageService, error) {
			return storage.NewLocalStorage(cfg.Storage.LocalPath, log)
		}),

		// Application services
		fx.Provide(apprecipe.NewRecipeService),
		fx.Provide(appuser.NewUserService),
		fx.Provide(appcontact.NewContactService),

		// HTTP layer
		fx.Provide(webserver.NewSessionStore),
		fx.Provide(monitoring.NewMetrics),
		fx.Provide(newHealthCheck),
		fx.Provide(webserver.NewWebServer),

		fx.Invoke(runServer),
	)

	app.Run()
}

// cacheBundle carries the cache repository together with the raw Redis
// client so the health check can ping it. The client is nil when Redis
// is disabled.
type cacheBundle struct {
	fx.Out

	Cache       outbound.CacheRepository
	RedisClient *redis.Client
}

func newCache(cfg *config.Config, log *zap.Logger) (cacheBundle, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, using in-memory session cache")
		return cacheBundle{Cache: memory.NewCacheRepository()}, nil
	}

	client, err := redispersistence.NewClient(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.Database)
	if err != nil {
		return cacheBundle{}, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return cacheBundle{
		Cache:       redispersistence.NewCacheRepository(client, log),
		RedisClient: client,
	}, nil
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gormpersistence.Open(gormpersistence.DatabaseOptions{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.GetDSN(),
		LogLevel: gormpersistence.ParseLogLevel(cfg.Database.LogLevel),
	})
	if err != nil {
		return nil, err
	}

	if err := gormpersistence.SeedReferenceData(db); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

func newHealthCheck(cfg *config.Config, log *zap.Logger, db *gorm.DB, redisClient *redis.Client) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.Register("database", healthcheck.NewDatabaseChecker(db))
	if redisClient != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(redisClient))
	}
	return hc
}

func runServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	server *webserver.WebServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Forkful",
				zap.Int("port", cfg.Server.Port),
				zap.String("environment", cfg.App.Environment),
			)
			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Web server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
