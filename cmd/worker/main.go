// Command worker consumes derivatives.requested events from Kafka, expands
// each template and persists the derivatives.  Completed batches are
// announced on the derivatives.generated topic.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/dockprep/internal/bootstrap"
	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/dockprep/internal/interfaces/http"
	"github.com/turtacn/dockprep/internal/interfaces/http/handlers"
	"github.com/turtacn/dockprep/internal/interfaces/worker"
)

// Set via -ldflags at build time.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka.enabled must be set to run the worker")
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: cfg.Metrics.Namespace,
		Subsystem: "worker",
	}, logger)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.BuildDerivatives(ctx, cfg, logger, bootstrap.Options{
		Metrics:    metrics,
		CacheTable: true,
		Publish:    true,
	})
	if err != nil {
		return err
	}
	defer deps.Close()

	// A separate group keeps the worker out of "events tail" rebalances.
	consumerCfg := kafka.ConsumerConfigFrom(cfg.Kafka, cfg.Kafka.RequestTopic)
	consumerCfg.GroupID = cfg.Kafka.GroupID + "-worker"
	consumer, err := kafka.NewConsumer(consumerCfg, logger.Named("kafka"))
	if err != nil {
		return err
	}
	requests := worker.NewRequestHandler(deps.Service, cfg.Worker.HandlerTimeout, logger)
	consumer.Subscribe(cfg.Kafka.RequestTopic, requests.Handle)

	// Health endpoints and metrics on the worker's own port.
	healthCfg := cfg.Server
	healthCfg.Port = cfg.Worker.HealthPort
	healthSrv := httpserver.NewServer(healthCfg, httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, handlers.NewTableChecker(deps.Source)),
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	}), logger)
	go func() {
		if err := healthSrv.Start(); err != nil {
			logger.Error("health server error", logging.Err(err))
			stop()
		}
	}()

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("dockprep worker started",
		logging.String("version", Version),
		logging.String("topic", cfg.Kafka.RequestTopic),
		logging.String("group", consumerCfg.GroupID),
		logging.Int("health_port", cfg.Worker.HealthPort))

	<-ctx.Done()
	logger.Info("shutdown signal received, draining")

	// Close waits for the in-flight message, bounded by the handler timeout.
	done := make(chan error, 1)
	go func() { done <- consumer.Close() }()
	select {
	case err := <-done:
		if err != nil {
			logger.Warn("consumer close failed", logging.Err(err))
		}
	case <-time.After(cfg.Worker.HandlerTimeout + 30*time.Second):
		logger.Warn("shutdown timeout exceeded, forcing exit")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := healthSrv.Stop(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	stats := consumer.Stats()
	logger.Info("dockprep worker stopped",
		logging.Int64("processed", stats.MessagesProcessed),
		logging.Int64("failed", stats.MessagesFailed))
	return nil
}

//Personal.AI order the ending
