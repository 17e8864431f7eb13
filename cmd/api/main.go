package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jamservices/internal/api"
	"jamservices/internal/catalog"
	"jamservices/internal/config"
	"jamservices/internal/database"
	"jamservices/internal/events"
	"jamservices/internal/export"
	"jamservices/internal/logging"
	"jamservices/internal/metrics"
	"jamservices/internal/payment"
	"jamservices/internal/repository"
	"jamservices/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	svcCatalog, err := loadCatalog(cfg, &logger)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, drafts := initDrafts(ctx, cfg, &logger)
	defer func() { _ = repository.Close(redisClient) }()

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, &logger)

	simulator := payment.NewSimulator(&logger,
		payment.WithOutcome(payment.SuccessRate(cfg.Payment.SuccessRate)),
		payment.WithStages([]payment.Stage{
			{Message: payment.DefaultStages[0].Message, Delay: cfg.Payment.ProcessingDelay},
			{Message: payment.DefaultStages[1].Message, Delay: cfg.Payment.ConfirmDelay},
		}),
	)

	deps := api.Deps{
		Sessions: service.NewSessionService(drafts, svcCatalog, eventBus, &logger, sessionClock(loc)),
		Checkout: service.NewCheckoutService(drafts, db, simulator, eventBus, cfg.Payment, &logger),
		History:  service.NewHistoryService(db, &logger),
		Exporter: export.NewExporter(cfg.Exports.Path, &logger),
		Location: loc,
	}
	httpServer := api.NewHTTPServer(cfg.API, deps, &logger)

	return serve(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// sessionClock makes "today" for the wizard the day in the configured zone,
// the same day the calendar grids are drawn for.
func sessionClock(loc *time.Location) service.SessionOption {
	return service.WithSessionClock(func() time.Time { return time.Now().In(loc) })
}

func loadCatalog(cfg *config.Config, logger *zerolog.Logger) (*catalog.Catalog, error) {
	path := os.Getenv("CATALOG_PATH")
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		logger.Info().Msg("using built-in catalog")
		return catalog.Default(), nil
	}

	c, err := catalog.Load(path)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", path).Msg("load catalog")
		return nil, err
	}
	logger.Info().Str("catalog_path", path).Int("services", len(c.Services())).Msg("catalog loaded")
	return c, nil
}

// initDrafts puts Redis in front of the in-memory store. A Redis outage at
// startup is not fatal; drafts fall back to memory until it recovers.
func initDrafts(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverDraftRepository) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory drafts")
		} else {
			logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
		}
	}

	primary := repository.NewRedisDraftRepository(redisClient, cfg.Session.TTL)
	fallback := repository.NewMemoryDraftRepository(cfg.Session.TTL)
	return redisClient, repository.NewFailoverDraftRepository(primary, fallback, logger)
}

func subscribeBookingEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingConfirmed, func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := ev.Decode(&payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("booking_id", payload.BookingID).
			Str("session_id", payload.SessionID).
			Str("service", payload.ServiceName).
			Int64("amount", payload.Amount).
			Msg("booking confirmed")
		return nil
	})
	bus.Subscribe(events.EventPaymentFailed, func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := ev.Decode(&payload); err != nil {
			return nil
		}
		logger.Warn().Str("session_id", payload.SessionID).Str("reason", payload.Reason).Msg("payment failed")
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
