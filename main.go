package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jshatto/asset-tracker/migrations"
	"github.com/Jshatto/asset-tracker/src/api"
	apihandlers "github.com/Jshatto/asset-tracker/src/api/handlers"
	"github.com/Jshatto/asset-tracker/src/api/middlewares"
	"github.com/Jshatto/asset-tracker/src/auth"
	"github.com/Jshatto/asset-tracker/src/config"
	"github.com/Jshatto/asset-tracker/src/database"
	"github.com/Jshatto/asset-tracker/src/repositories"
	"github.com/Jshatto/asset-tracker/src/repositories/memory"
	"github.com/Jshatto/asset-tracker/src/services"
	"github.com/Jshatto/asset-tracker/src/utils"
	aws_handler "github.com/Jshatto/asset-tracker/src/utils/aws"
	redis_utils "github.com/Jshatto/asset-tracker/src/utils/redis"
	"github.com/Jshatto/asset-tracker/src/worker"
	"github.com/Jshatto/asset-tracker/src/worker/controllers"
	workerhandlers "github.com/Jshatto/asset-tracker/src/worker/handlers"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

type stores struct {
	assets  repositories.AssetRepository
	clients repositories.ClientRepository
	users   repositories.UserRepository
	close   func()
}

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		logrus.WithError(err).Fatal("Error while loading config")
	}
	logger := utils.NewLogger(utils.ParseLevel(cfg.Logging.Level), cfg.Logging.ToFile, cfg.Logging.FilePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(utils.WithLogger(ctx, logger), cfg, logger)
	stop()
	if err != nil {
		logger.WithError(err).Error("Service stopped with an error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if cfg.Service.Type == config.MIGRATE {
		return migrations.Up(ctx, cfg)
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	status, closeStatus, err := runStatusStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStatus()
	recompute := services.NewRecomputeService(st.assets, status)

	switch cfg.Service.Type {
	case config.JOB:
		summary, err := recompute.Run(ctx)
		if err != nil {
			return err
		}
		entry := logger.WithFields(logrus.Fields{
			"run_id":    summary.RunID,
			"processed": summary.Processed,
			"updated":   summary.Updated,
			"failed":    summary.Failed,
		})
		if summary.Failed > 0 {
			entry.Warn("Recompute job finished with failures")
		} else {
			entry.Info("Recompute job finished")
		}
		return nil

	case config.WORKER:
		controller := controllers.NewController(recompute, logger)
		defer controller.Stop()
		if err := controller.ScheduleRecompute(cfg.Scheduler.RecomputeCron); err != nil {
			return fmt.Errorf("invalid recompute schedule: %w", err)
		}

		var tokens *auth.TokenAuth
		if cfg.Auth.JWTSecret != "" || cfg.Auth.JWTSecretID != "" {
			if tokens, err = tokenAuth(cfg); err != nil {
				return err
			}
		}
		server := worker.NewServer(workerhandlers.NewHandler(controller), tokens)
		return serve(ctx, worker.NewHTTPServer(server, cfg.Service.Port), logger)

	case config.API:
		tokens, err := tokenAuth(cfg)
		if err != nil {
			return err
		}
		authService := services.NewAuthService(st.users, st.clients, tokens)
		if cfg.Auth.AdminEmail != "" {
			if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
				return fmt.Errorf("failed to seed admin user: %w", err)
			}
		}

		handler := apihandlers.NewHandler(
			services.NewAssetService(st.assets, st.clients),
			services.NewClientService(st.clients),
			authService,
			logger,
		)
		limiter := middlewares.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		server := api.NewServer(handler, tokens, limiter)
		return serve(ctx, api.NewHTTPServer(server, cfg.Service.Port), logger)
	}
	return fmt.Errorf("unknown service type %q", cfg.Service.Type)
}

func openStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*stores, error) {
	if cfg.Databases.SQL.Driver == "memory" {
		logger.Warn("Using the in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &stores{
			assets:  store.Assets(),
			clients: store.Clients(),
			users:   store.Users(),
			close:   func() {},
		}, nil
	}

	pool, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		assets:  repositories.NewAssetRepository(pool),
		clients: repositories.NewClientRepository(pool),
		users:   repositories.NewUserRepository(pool),
		close:   pool.Close,
	}, nil
}

func runStatusStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (services.RunStatusStore, func(), error) {
	if !cfg.Databases.Redis.Enabled() {
		return services.NewCacheRunStatusStore(), func() {}, nil
	}

	handler, err := redis_utils.NewRedisHandler(ctx, cfg.Databases.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeFn := func() {
		if err := handler.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close redis connection")
		}
	}
	return services.NewRedisRunStatusStore(handler), closeFn, nil
}

func tokenAuth(cfg *config.Config) (*auth.TokenAuth, error) {
	var source auth.SecretSource
	if cfg.Auth.JWTSecretID != "" {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.Auth.AWSRegion, cfg.Auth.AWSEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		source = awsHandler.SecretManager
	}

	secret, err := auth.ResolveSecret(cfg.Auth, source)
	if err != nil {
		return nil, err
	}
	return auth.NewTokenAuth(secret, cfg.Auth.TokenTTL), nil
}

func serve(ctx context.Context, httpServer *http.Server, logger *logrus.Logger) error {
	errC := make(chan error, 1)
	go func() {
		logger.WithField("addr", httpServer.Addr).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
