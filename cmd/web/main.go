package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/wanderlust-labs/destination-portal/internal/api/http"
	"github.com/wanderlust-labs/destination-portal/internal/api/http/handlers"
	"github.com/wanderlust-labs/destination-portal/internal/apiclient"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
	"github.com/wanderlust-labs/destination-portal/internal/config"
	"github.com/wanderlust-labs/destination-portal/internal/events"
	"github.com/wanderlust-labs/destination-portal/internal/observability"
	"github.com/wanderlust-labs/destination-portal/internal/persistence"
	"github.com/wanderlust-labs/destination-portal/internal/repository"
	"github.com/wanderlust-labs/destination-portal/internal/service"
	"github.com/wanderlust-labs/destination-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	auth.SubscribeRevocations(dispatcher)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	deps := map[string]handlers.Pinger{}
	var stores auth.StoreFactory
	switch cfg.Session.Store {
	case config.StoreRedis:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		deps["redis"] = redis
		stores = persistence.NewRedisTokenStores(redis, cfg.Session.KeyPrefix, cfg.Session.TTL()).For
	default:
		logger.Warn("using in-memory session store; sessions are lost on restart")
		stores = auth.NewMemoryStores().For
	}

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout(),
		apiclient.WithEvents(dispatcher),
		apiclient.WithLogger(logger),
	)
	deps["backend"] = client

	authService := service.NewAuthService(repository.NewAuthRepository(client), logger)
	destinationService := service.NewDestinationService(repository.NewDestinationRepository(client))

	app := httptransport.NewApp(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		ReloadViews:    cfg.App.Env == "development",
		Logger:         logger,
		Metrics:        metrics,
	}, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:         handlers.NewAuthHandler(authService, logger),
		Destinations: handlers.NewDestinationsHandler(destinationService),
		Session:      handlers.NewSessionHandler(metrics),
		SessionLoader: auth.NewSessionLoader(stores, dispatcher, logger, auth.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL(),
		}),
		LoginLimiter: httptransport.NewIPRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("api", cfg.API.BaseURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
