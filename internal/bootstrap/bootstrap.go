// Package bootstrap assembles the derivative service and its optional
// infrastructure from configuration.  The CLI, the API server and the worker
// share it so every entry point wires the same stack.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/turtacn/dockprep/internal/application/derivative"
	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/database/redis"
	"github.com/turtacn/dockprep/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/internal/infrastructure/storage/minio"
	"github.com/turtacn/dockprep/internal/infrastructure/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/watch"
)

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:            cfg.Level,
		Format:           cfg.Format,
		OutputPaths:      []string{cfg.Output},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// NewWriter selects the artifact writer from derivatives.sink and
// derivatives.format.
func NewWriter(ctx context.Context, cfg *config.Config, logger logging.Logger) (derivative.Writer, error) {
	switch cfg.Derivatives.Sink {
	case "minio":
		if cfg.Derivatives.Format != structure.ExtSMILES {
			return nil, fmt.Errorf("derivatives.sink minio only stores %q artifacts, got format %q",
				structure.ExtSMILES, cfg.Derivatives.Format)
		}
		client, err := minio.NewMinIOClient(ctx, cfg.MinIO, logger.Named("minio"))
		if err != nil {
			return nil, err
		}
		return minio.NewDerivativeSink(client), nil
	default:
		if cfg.Derivatives.Format == structure.ExtMol {
			return structure.NewOpenBabelWriter(cfg.Derivatives.ObabelPath), nil
		}
		return structure.NewSMILESWriter(), nil
	}
}

// Options selects the optional parts of the stack.
type Options struct {
	Metrics *prometheus.AppMetrics
	// CacheTable keeps the parsed substituent table in memory between calls.
	CacheTable bool
	// ExpansionCache memoises expansions in Redis when redis.enabled is set.
	ExpansionCache bool
	// Publish announces persisted batches on kafka.topic when kafka.enabled
	// is set.
	Publish bool
	// SkipWriter builds a read-only service.
	SkipWriter bool
}

// Derivatives is an assembled derivative service with the components a
// process may also need directly.
type Derivatives struct {
	Service derivative.Service
	Source  derivative.TableSource
	// Cached is set when Options.CacheTable was requested.
	Cached *derivative.CachedTableSource
	// Redis and Expansions are nil unless the expansion cache is active.
	Redis      *redis.Client
	Expansions *redis.ExpansionCache
	Publisher  *kafka.EventPublisher

	closers []func() error
	logger  logging.Logger
}

// Close releases connections in reverse order of creation.
func (d *Derivatives) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.Warn("closing dependency failed", logging.Err(err))
		}
	}
	d.closers = nil
}

// BuildDerivatives wires the service described by cfg.  On error every
// connection opened so far is closed.
func BuildDerivatives(ctx context.Context, cfg *config.Config, logger logging.Logger, opts Options) (*Derivatives, error) {
	d := &Derivatives{logger: logger}
	fail := func(err error) (*Derivatives, error) {
		d.Close()
		return nil, err
	}

	var writer derivative.Writer
	if !opts.SkipWriter {
		w, err := NewWriter(ctx, cfg, logger)
		if err != nil {
			return fail(err)
		}
		writer = w
	}

	file := derivative.NewFileTableSource(cfg.Substituents.Path, cfg.Substituents.Strict, logger, opts.Metrics)
	d.Source = file
	if opts.CacheTable {
		d.Cached = derivative.NewCachedTableSource(file, logger)
		d.Source = d.Cached
	}

	svcOpts := []derivative.Option{}
	if opts.Metrics != nil {
		svcOpts = append(svcOpts, derivative.WithMetrics(opts.Metrics))
	}

	if opts.ExpansionCache && cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis, logger.Named("redis"))
		if err != nil {
			return fail(err)
		}
		d.Redis = client
		d.closers = append(d.closers, client.Close)

		cache := redis.NewRedisCache(client, logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		d.Expansions = redis.NewExpansionCache(cache, cfg.Redis.DefaultTTL)
		svcOpts = append(svcOpts, derivative.WithExpansionCache(d.Expansions))
	}

	if opts.Publish && cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), logger.Named("kafka"))
		if err != nil {
			return fail(err)
		}
		d.Publisher = kafka.NewEventPublisher(producer, cfg.Kafka.Topic)
		d.closers = append(d.closers, d.Publisher.Close)
		svcOpts = append(svcOpts, derivative.WithPublisher(d.Publisher))
	}

	svc, err := derivative.NewService(d.Source, writer, derivative.ServiceConfig{
		Placeholder: cfg.Substituents.Placeholder,
		MaxCount:    cfg.Derivatives.MaxCount,
		Concurrency: cfg.Derivatives.Concurrency,
	}, logger, svcOpts...)
	if err != nil {
		return fail(err)
	}
	d.Service = svc
	return d, nil
}

// ReloadTable swaps in a freshly parsed substituent table and drops the
// expansions cached against the previous one.  It requires CacheTable.
func (d *Derivatives) ReloadTable(ctx context.Context) error {
	if d.Cached == nil {
		return fmt.Errorf("substituent table is not cached")
	}
	prev, err := d.Cached.Reload(ctx)
	if err != nil {
		return err
	}
	if prev == "" || d.Expansions == nil {
		return nil
	}
	current, err := d.Cached.Table(ctx)
	if err != nil || current.Digest() == prev {
		return err
	}
	n, err := d.Expansions.InvalidateTable(ctx, prev)
	if err != nil {
		d.logger.Warn("purging stale expansions failed", logging.String("digest", prev), logging.Err(err))
		return nil
	}
	d.logger.Info("purged stale expansions", logging.String("digest", prev), logging.Int64("keys", n))
	return nil
}

// WatchTable reloads the table whenever the substituent file changes.  The
// returned watcher is already running; Stop it on shutdown.
func (d *Derivatives) WatchTable(ctx context.Context, path string) (*watch.FileWatcher, error) {
	w, err := watch.NewFileWatcher(path, func(string) {
		// Failures are logged by Reload; the previous table stays in service.
		_ = d.ReloadTable(ctx)
	}, watch.WithLogger(d.logger.Named("watch")))
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

//Personal.AI order the ending
