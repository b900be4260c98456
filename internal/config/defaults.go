// Package config provides configuration loading, defaults, and validation for
// dockprep.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultLogOutput = "stderr"

	DefaultSubstituentsPath = "configs/substituents.txt"
	DefaultPlaceholder      = "[R]"

	DefaultDerivativeFormat = "smi"
	DefaultDerivativeSink   = "local"
	DefaultObabelPath       = "obabel"
	DefaultMaxCount         = 100000
	DefaultConcurrency      = 4

	DefaultExhaustiveness = 8
	DefaultNumModes       = 9
	DefaultEnergyRange    = 3
	DefaultBoxSize        = 20.0

	DefaultServerHost   = "0.0.0.0"
	DefaultServerPort   = 8080
	DefaultMaxExpansion = 10000

	DefaultMetricsNamespace = "dockprep"
	DefaultMetricsPath      = "/metrics"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "dockprep:"

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopic        = "dockprep.derivatives.generated"
	DefaultKafkaRequestTopic = "dockprep.derivatives.requested"
	DefaultKafkaGroup        = "dockprep-events"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "dockprep"

	DefaultWorkerHealthPort = 8081
)

// NewDefaultConfig returns a Config populated entirely with defaults.  It is
// what the CLI runs with when no config file is given.
func NewDefaultConfig() *Config {
	cfg := &Config{Substituents: SubstituentsConfig{Strict: true}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with the default.  Fields
// that have already been set (non-zero values) are left unchanged so that
// explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = DefaultLogOutput
	}

	// ── Substituents ──────────────────────────────────────────────────────────
	if cfg.Substituents.Path == "" {
		cfg.Substituents.Path = DefaultSubstituentsPath
	}
	if cfg.Substituents.Placeholder == "" {
		cfg.Substituents.Placeholder = DefaultPlaceholder
	}
	// Strict is a bool; the loader seeds it to true before unmarshalling.

	// ── Derivatives ───────────────────────────────────────────────────────────
	if cfg.Derivatives.Format == "" {
		cfg.Derivatives.Format = DefaultDerivativeFormat
	}
	if cfg.Derivatives.Sink == "" {
		cfg.Derivatives.Sink = DefaultDerivativeSink
	}
	if cfg.Derivatives.ObabelPath == "" {
		cfg.Derivatives.ObabelPath = DefaultObabelPath
	}
	if cfg.Derivatives.MaxCount == 0 {
		cfg.Derivatives.MaxCount = DefaultMaxCount
	}
	if cfg.Derivatives.Concurrency == 0 {
		cfg.Derivatives.Concurrency = DefaultConcurrency
	}

	// ── Docking ───────────────────────────────────────────────────────────────
	if cfg.Docking.Exhaustiveness == 0 {
		cfg.Docking.Exhaustiveness = DefaultExhaustiveness
	}
	if cfg.Docking.NumModes == 0 {
		cfg.Docking.NumModes = DefaultNumModes
	}
	if cfg.Docking.EnergyRange == 0 {
		cfg.Docking.EnergyRange = DefaultEnergyRange
	}
	if cfg.Docking.BoxSize == 0 {
		cfg.Docking.BoxSize = DefaultBoxSize
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 1 << 20
	}
	if cfg.Server.MaxExpansion == 0 {
		cfg.Server.MaxExpansion = DefaultMaxExpansion
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = int(cfg.Server.RateLimit) * 2
		if cfg.Server.RateLimitBurst < 1 {
			cfg.Server.RateLimitBurst = 1
		}
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = time.Hour
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultKafkaRequestTopic
	}
	if cfg.Kafka.RequiredAcks == "" {
		cfg.Kafka.RequiredAcks = "one"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroup
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = 100
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.HealthPort == 0 {
		cfg.Worker.HealthPort = DefaultWorkerHealthPort
	}
	if cfg.Worker.HandlerTimeout == 0 {
		cfg.Worker.HandlerTimeout = 5 * time.Minute
	}
}

//Personal.AI order the ending
