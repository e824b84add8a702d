// Package main wires together the schedule service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/JakeFAU/tv-schedule-scraper/internal/api"
	"github.com/JakeFAU/tv-schedule-scraper/internal/channels"
	"github.com/JakeFAU/tv-schedule-scraper/internal/clock/system"
	"github.com/JakeFAU/tv-schedule-scraper/internal/config"
	"github.com/JakeFAU/tv-schedule-scraper/internal/extractor"
	collyfetcher "github.com/JakeFAU/tv-schedule-scraper/internal/fetcher/colly"
	"github.com/JakeFAU/tv-schedule-scraper/internal/id/uuid"
	"github.com/JakeFAU/tv-schedule-scraper/internal/logging"
	"github.com/JakeFAU/tv-schedule-scraper/internal/metrics"
	"github.com/JakeFAU/tv-schedule-scraper/internal/progress"
	progresssinks "github.com/JakeFAU/tv-schedule-scraper/internal/progress/sinks"
	"github.com/JakeFAU/tv-schedule-scraper/internal/schedule"
	"github.com/JakeFAU/tv-schedule-scraper/internal/store/memory"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tvschedule: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	promSink, err := progresssinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("progress metrics: %w", err)
	}
	sinks := []progress.Sink{promSink}
	var progressHandler *api.ProgressHandler
	if cfg.Progress.HistorySize > 0 {
		runs := memory.NewRunStore(cfg.Progress.HistorySize)
		sinks = append(sinks, progresssinks.NewStoreSink(runs, logger.Named("progress")))
		progressHandler = api.NewProgressHandler(runs, logger.Named("api"))
	}
	if cfg.Progress.LogEvents {
		sinks = append(sinks, progresssinks.NewLogSink(logger.Named("progress")))
	}
	hub := progress.NewHub(progress.Config{
		BufferSize:     cfg.Progress.BufferSize,
		MaxBatchEvents: cfg.Progress.MaxBatchEvents,
		MaxBatchWait:   cfg.ProgressBatchWait(),
		Logger:         logger.Named("progress"),
	}, sinks...)

	clock := system.New()
	ex := extractor.New(clock, uuid.New(), logger.Named("extractor"))
	coordinator := schedule.NewCoordinator(ex, hub, clock, logger.Named("scraper"))
	opener := collyfetcher.New(collyfetcher.Config{
		BaseURL:   cfg.Scraper.SourceBaseURL,
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.Budget(),
	}, logger.Named("fetcher"))
	svc := schedule.NewService(schedule.Config{
		MaxParallel:       cfg.Scraper.MaxParallel,
		PriorityChannels:  cfg.Scraper.PriorityChannels,
		AggregatePoolSize: cfg.Scraper.AggregatePoolSize,
		ChannelPoolSize:   cfg.Scraper.ChannelPoolSize,
		Budget:            cfg.Budget(),
		Location:          cfg.Location(),
	}, registry, opener, coordinator, clock, hub, logger.Named("scraper"))

	apiServer := api.NewServer(svc, api.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout(),
		Progress:       progressHandler,
	}, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started",
			zap.Int("port", cfg.Server.Port),
			zap.Int("channels", registry.Len()),
			zap.String("source", cfg.Scraper.SourceBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := hub.Close(shutdownCtx); err != nil {
		logger.Warn("progress hub close error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}

func buildRegistry(cfg config.Config) (*channels.Registry, error) {
	if len(cfg.Channels) == 0 {
		return channels.Default(), nil
	}
	registry, err := channels.New(cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("channel roster: %w", err)
	}
	return registry, nil
}
