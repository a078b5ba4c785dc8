package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/process-desk/internal/api/http"
	"github.com/spec-kit/process-desk/internal/api/http/handlers"
	"github.com/spec-kit/process-desk/internal/auth"
	"github.com/spec-kit/process-desk/internal/config"
	"github.com/spec-kit/process-desk/internal/events"
	"github.com/spec-kit/process-desk/internal/observability"
	"github.com/spec-kit/process-desk/internal/persistence"
	"github.com/spec-kit/process-desk/internal/repository"
	"github.com/spec-kit/process-desk/internal/service"
	"github.com/spec-kit/process-desk/internal/session"
	"github.com/spec-kit/process-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway, err := persistence.NewGateway(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("invalid database configuration", zap.Error(err))
	}
	defer gateway.Close()

	if cfg.Database.RunMigrations && gateway.Configured() {
		if err := persistence.RunMigrations(ctx, gateway, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		sessionStorage fiber.Storage
		redis          *persistence.Redis
	)
	if cfg.Session.Store == config.SessionStoreRedis {
		if client, ok := persistence.NewRedis(cfg.Redis, logger); ok {
			redis = client
			defer redis.Close()
			sessionStorage = redis.Storage
		} else {
			logger.Warn("falling back to in-memory sessions")
		}
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	audit := worker.StartAuditWorker(dispatcher, logger)
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenManager(cfg.Auth.TokenSecret, cfg.Auth.LoginTokenTTL())
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   repository.NewUserRepository(gateway),
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	processService := service.NewProcessService(service.ProcessDependencies{
		ProcessRepo: repository.NewProcessRepository(gateway),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, handlers.HealthDependencies{
			Gateway: gateway,
			Redis:   redis,
			Metrics: metrics,
			Audit:   audit,
		}),
		Auth:      handlers.NewAuthHandler(authService, cfg.Auth.CookieSecure, logger),
		Pages:     handlers.NewPagesHandler(),
		Processes: handlers.NewProcessesHandler(processService, logger),
		Sessions:  session.NewManager(sessionStorage, tokens, cfg.Session.TTL(), cfg.Auth.CookieSecure, logger),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
