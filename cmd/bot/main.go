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
	"jamservices/internal/bot"
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

	"github.com/prometheus/client_golang/prometheus"
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
	cfg, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := cfg.ValidateBot(); err != nil {
		logger.Error().Err(err).Msg("Set telegram.bot_token in config.yaml or TELEGRAM_BOT_TOKEN")
		return err
	}

	svcCatalog, err := loadCatalog(cfg, &logger)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create export directory")
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, drafts := initDrafts(ctx, cfg, &logger)
	defer func() { _ = repository.Close(redisClient) }()

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, &logger)

	simulator := payment.NewSimulator(&logger,
		payment.WithOutcome(payment.SuccessRate(cfg.Payment.SuccessRate)),
		payment.WithStages([]payment.Stage{
			{Message: payment.DefaultStages[0].Message, Delay: cfg.Payment.ProcessingDelay},
			{Message: payment.DefaultStages[1].Message, Delay: cfg.Payment.ConfirmDelay},
		}),
	)

	sessions := service.NewSessionService(drafts, svcCatalog, eventBus, &logger, sessionClock(loc))
	checkout := service.NewCheckoutService(drafts, db, simulator, eventBus, cfg.Payment, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.API.Enabled {
		apiServer := api.NewHTTPServer(cfg.API, api.Deps{
			Sessions: sessions,
			Checkout: checkout,
			History:  service.NewHistoryService(db, &logger),
			Exporter: export.NewExporter(cfg.Exports.Path, &logger),
			Location: loc,
		}, &logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error().Err(err).Msg("API server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.HTTP.ShutdownTimeout)
			defer cancel()
			_ = apiServer.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	botWrapper, err := bot.NewBotWrapper(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create BotAPI")
		return err
	}

	telegramBot := bot.NewBot(
		service.NewTelegramService(botWrapper),
		cfg.Telegram,
		sessions,
		checkout,
		drafts,
		loc,
		bot.NewMetrics(prometheus.DefaultRegisterer),
		&logger,
	)

	go func() {
		<-ctx.Done()
		telegramBot.Stop()
	}()

	logger.Info().Msg("Bot started")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

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
		return catalog.Default(), nil
	}

	c, err := catalog.Load(path)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", path).Msg("Failed to load catalog")
		return nil, err
	}
	return c, nil
}

func initDrafts(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverDraftRepository) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	primaryRepo := repository.NewRedisDraftRepository(redisClient, cfg.Session.TTL)
	fallbackRepo := repository.NewMemoryDraftRepository(cfg.Session.TTL)
	return redisClient, repository.NewFailoverDraftRepository(primaryRepo, fallbackRepo, logger)
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
			Str("customer_email", payload.CustomerEmail).
			Int64("amount", payload.Amount).
			Msg("Booking confirmed")
		return nil
	})
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
