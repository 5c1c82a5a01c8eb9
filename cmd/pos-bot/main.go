package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meo-pos/internal/bot"
	"meo-pos/internal/client"
	"meo-pos/internal/config"
	"meo-pos/internal/domain"
	"meo-pos/internal/events"
	"meo-pos/internal/journal"
	"meo-pos/internal/logging"
	"meo-pos/internal/metrics"
	"meo-pos/internal/models"
	"meo-pos/internal/repository"
	"meo-pos/internal/sheets"
	"meo-pos/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "pos-bot-main").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	apiClient, err := client.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating API client")
		return err
	}

	db, err := journal.New(cfg.Journal.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Error initializing sales journal")
		return err
	}
	defer db.Close()

	sessionRepo := initSessionRepo(ctx, cfg, &logger)

	salesWorker := initSheetsWorker(ctx, cfg, &logger)

	eventBus := events.NewEventBus()
	subscribeOrderEvents(eventBus, salesWorker, &logger)

	botMetrics := bot.NewMetrics()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	posBot, err := bot.NewBot(botAPI, cfg, apiClient, apiClient, sessionRepo, db, eventBus, botMetrics, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating bot")
		return err
	}

	logger.Info().Msg("POS bot starting...")
	posBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		logger.Info().Str("addr", addr).Msg("Metrics server listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
}

func initSessionRepo(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.SessionRepository {
	ttl := time.Duration(models.DefaultSessionTTL) * time.Second
	fallback := repository.NewMemorySessionRepository(ttl)

	if cfg.Redis.Address == "" {
		return fallback
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, starting on memory fallback")
	}

	primary := repository.NewRedisSessionRepository(redisClient, ttl)
	return repository.NewFailoverSessionRepository(primary, fallback, logger)
}

func initSheetsWorker(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *worker.SalesWorker {
	if cfg.Google.CredentialsFile == "" {
		logger.Info().Msg("Google Sheets sync disabled")
		return nil
	}

	svc, err := sheets.New(ctx, cfg.Google.CredentialsFile, cfg.Google.SalesSpreadsheetID, cfg.Google.SheetName)
	if err != nil {
		logger.Warn().Err(err).Msg("Error initializing Google Sheets, sync disabled")
		return nil
	}

	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
	w := worker.NewSalesWorker(svc, retryPolicy, logger)
	go w.Start(ctx)
	return w
}

func subscribeOrderEvents(bus *events.EventBus, salesWorker *worker.SalesWorker, logger *zerolog.Logger) {
	if salesWorker == nil {
		return
	}

	bus.Subscribe(events.EventOrderCreated, func(ev *events.Event) error {
		var payload events.OrderCreatedPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		entry := &models.JournalEntry{
			RemoteID:  payload.RemoteID,
			SessionID: payload.SessionID,
			Subtotal:  payload.Subtotal,
			Tax:       payload.Tax,
			Total:     payload.Total,
			Lines:     payload.Lines,
			CreatedAt: payload.CreatedAt,
		}
		if err := salesWorker.Enqueue(entry); err != nil {
			logger.Error().Err(err).Int64("remote_id", payload.RemoteID).Msg("event bus: enqueue sale")
		}
		return nil
	})
}
