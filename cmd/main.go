package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pairing_service/internal/auth"
	"pairing_service/internal/config"
	"pairing_service/internal/events/rabbitmq"
	httpserver "pairing_service/internal/http_server"
	"pairing_service/internal/media"
	"pairing_service/internal/media/livekit"
	"pairing_service/internal/metrics"
	"pairing_service/internal/storage/jsonfile"
	"pairing_service/internal/storage/postgres"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type accountStore interface {
	auth.AccountSaver
	auth.AccountProvider
	auth.DeviceBinder
	Close() error
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)

	log.Info("starting pairing service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("shutdown signal received")
		cancel()
	}()

	store, err := setupStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to open account store", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	var events auth.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer msgBroker.Close()
		events = msgBroker
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	authService := auth.New(
		log,
		store, store, store,
		events,
		collector,
		cfg.Tokens.IdentitySecret,
		cfg.Tokens.IdentityTTL,
	)

	minter, err := livekit.New(cfg.Media.APIKey, cfg.Media.APISecret)
	if err != nil {
		log.Error("failed to configure media provider", slog.String("err", err.Error()))
		os.Exit(1)
	}

	issuer := media.NewIssuer(log, minter, collector, cfg.Media.WSURL, cfg.Media.SessionTTL)

	router := httpserver.NewRouter(httpserver.Deps{
		Log:             log,
		Auth:            authService,
		MediaIssuer:     issuer,
		LegacyStreamURL: cfg.Media.LegacyStreamURL,
		MetricsHandler:  metrics.Handler(registry),
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("server stopped gracefully")
	}
}

func setupStorage(ctx context.Context, cfg *config.Config) (accountStore, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.New(ctx, cfg)
	default:
		return jsonfile.New(cfg.Storage.FilePath)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
