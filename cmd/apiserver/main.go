// Command apiserver serves the read-only derivative API: expansion, counting,
// template classification and the substituent table.
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
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/dockprep/internal/interfaces/http"
	"github.com/turtacn/dockprep/internal/interfaces/http/handlers"
	"github.com/turtacn/dockprep/internal/interfaces/http/middleware"
)

// Set via -ldflags at build time.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides server.port)")
	watchTable := flag.Bool("watch", true, "reload the substituent table when the file changes")
	flag.Parse()

	if err := run(*configPath, *port, *watchTable); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int, watchTable bool) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	routerCfg := httpserver.RouterConfig{Logger: logger, MetricsPath: cfg.Metrics.Path}
	var metrics *prometheus.AppMetrics
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace: cfg.Metrics.Namespace,
		}, logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
		routerCfg.Metrics = metrics
		routerCfg.MetricsCollector = collector
	}

	deps, err := bootstrap.BuildDerivatives(ctx, cfg, logger, bootstrap.Options{
		Metrics:        metrics,
		CacheTable:     true,
		ExpansionCache: true,
		SkipWriter:     true,
	})
	if err != nil {
		return err
	}
	defer deps.Close()

	// Parse the table up front so a broken file fails the start, not the
	// first request.
	if _, err := deps.Service.Substituents(ctx); err != nil {
		return err
	}
	if watchTable {
		w, err := deps.WatchTable(ctx, cfg.Substituents.Path)
		if err != nil {
			return err
		}
		defer w.Stop()
	}

	checkers := []handlers.HealthChecker{handlers.NewTableChecker(deps.Source)}
	if deps.Redis != nil {
		checkers = append(checkers, handlers.NewCheckerFunc("redis", deps.Redis.Ping))
	}
	routerCfg.HealthHandler = handlers.NewHealthHandler(Version, checkers...)
	routerCfg.DerivativeHandler = handlers.NewDerivativeHandler(deps.Service,
		cfg.Server.MaxExpansion, cfg.Server.MaxBodySize, logger)

	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewTokenBucketLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst, 5*time.Minute)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
	}

	server := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logger.Info("dockprep API server started",
		logging.String("version", Version),
		logging.String("addr", server.Addr()),
		logging.Bool("redis", deps.Redis != nil),
		logging.Float64("rate_limit", cfg.Server.RateLimit))

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down API server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", logging.Err(err))
	}
	logger.Info("API server stopped")
	return nil
}

//Personal.AI order the ending
