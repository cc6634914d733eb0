package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/nws-alert-monitor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/nws-alert-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/nws-alert-monitor/internal/adapter/logfile"
	"github.com/couchcryptid/nws-alert-monitor/internal/adapter/ntfy"
	"github.com/couchcryptid/nws-alert-monitor/internal/adapter/nws"
	"github.com/couchcryptid/nws-alert-monitor/internal/adapter/sound"
	"github.com/couchcryptid/nws-alert-monitor/internal/config"
	"github.com/couchcryptid/nws-alert-monitor/internal/monitor"
	"github.com/couchcryptid/nws-alert-monitor/internal/observability"
	"github.com/couchcryptid/nws-alert-monitor/internal/pipeline"
	"github.com/couchcryptid/nws-alert-monitor/web"
)

const ntfyTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	state := monitor.New(cfg.HistorySize, cfg.SeenLimit, !cfg.SoundEnabled)
	hub := httpadapter.NewHub(state, logger)
	fetcher := nws.NewClient(cfg.NWSAlertsURL, cfg.NWSUserAgent, cfg.NWSTimeout, metrics, logger)

	var sinks []pipeline.Sink
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		kafkaWriter = kafkaadapter.NewWriter(cfg, metrics, logger)
		sinks = append(sinks, kafkaWriter)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.NtfyEnabled() {
		sinks = append(sinks, ntfy.NewPublisher(cfg.NtfyURL, cfg.NtfyTopic, ntfyTimeout))
		logger.Info("ntfy push enabled", "url", cfg.NtfyURL, "topic", cfg.NtfyTopic)
	}

	notifier := pipeline.NewNotifier(
		state,
		sound.NewPlayer(cfg.SoundFiles, cfg.SoundCommand, logger),
		logfile.NewWriter(cfg.LogDir),
		sinks,
		hub,
		logger,
		metrics,
	)
	poller := pipeline.NewPoller(fetcher, cfg.Rules, notifier, state, hub,
		clockwork.NewRealClock(), cfg.PollInterval, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, fetcher, state, hub, web.Static(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start poll loop.
	go func() {
		if err := poller.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	if cfg.TrayEnabled {
		// Blocks on platforms with a tray until Quit or ctx is done.
		startTray(ctx, state, hub, stop, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
