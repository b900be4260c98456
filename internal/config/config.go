// Package config defines all configuration structures for dockprep.  No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"` // "stderr" | "stdout" | file path
}

// SubstituentsConfig locates the substituent definition file.
type SubstituentsConfig struct {
	Path        string `mapstructure:"path"`
	Placeholder string `mapstructure:"placeholder"`
	// Strict fails the whole load on the first malformed line.
	Strict bool `mapstructure:"strict"`
}

// DerivativesConfig controls how generated derivatives are persisted.
type DerivativesConfig struct {
	Format      string `mapstructure:"format"` // "smi" | "mol"
	Sink        string `mapstructure:"sink"`   // "local" | "minio"
	ObabelPath  string `mapstructure:"obabel_path"`
	MaxCount    int64  `mapstructure:"max_count"`
	Concurrency int    `mapstructure:"concurrency"`
}

// DockingConfig holds the search parameters written into docking-box files.
type DockingConfig struct {
	Exhaustiveness int     `mapstructure:"exhaustiveness"`
	NumModes       int     `mapstructure:"num_modes"`
	EnergyRange    int     `mapstructure:"energy_range"`
	BoxSize        float64 `mapstructure:"box_size"`
}

// ServerConfig holds HTTP API server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxExpansion caps how many derivatives a single API request may return.
	MaxExpansion int64 `mapstructure:"max_expansion"`

	// RateLimit is the sustained per-client request rate; 0 disables limiting.
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// RedisConfig holds Redis connection parameters for the expansion cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer and consumer parameters.  Topic
// carries derivatives.generated events; RequestTopic feeds the worker.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	RequestTopic string        `mapstructure:"request_topic"`
	GroupID      string        `mapstructure:"group_id"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RequiredAcks string        `mapstructure:"required_acks"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// WorkerConfig holds settings for the asynchronous generation worker.
type WorkerConfig struct {
	// HealthPort serves the worker's health endpoints and metrics.
	HealthPort     int           `mapstructure:"health_port"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.  Every infrastructure component
// and application service reads its settings from the relevant sub-struct.
type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	Substituents SubstituentsConfig `mapstructure:"substituents"`
	Derivatives  DerivativesConfig  `mapstructure:"derivatives"`
	Docking      DockingConfig      `mapstructure:"docking"`
	Server       ServerConfig       `mapstructure:"server"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	MinIO        MinIOConfig        `mapstructure:"minio"`
	Worker       WorkerConfig       `mapstructure:"worker"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Substituents
	if strings.TrimSpace(c.Substituents.Path) == "" {
		return fmt.Errorf("config: substituents.path is required")
	}
	if strings.TrimSpace(c.Substituents.Placeholder) == "" {
		return fmt.Errorf("config: substituents.placeholder must not be blank")
	}

	// Derivatives
	switch c.Derivatives.Format {
	case "smi", "mol":
	default:
		return fmt.Errorf("config: derivatives.format %q is invalid; expected smi|mol", c.Derivatives.Format)
	}
	switch c.Derivatives.Sink {
	case "local":
	case "minio":
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("config: derivatives.sink minio requires minio.endpoint and minio.bucket")
		}
	default:
		return fmt.Errorf("config: derivatives.sink %q is invalid; expected local|minio", c.Derivatives.Sink)
	}
	if c.Derivatives.MaxCount < 0 {
		return fmt.Errorf("config: derivatives.max_count must be ≥ 0, got %d", c.Derivatives.MaxCount)
	}
	if c.Derivatives.Concurrency < 1 {
		return fmt.Errorf("config: derivatives.concurrency must be ≥ 1, got %d", c.Derivatives.Concurrency)
	}

	// Docking
	if c.Docking.Exhaustiveness < 1 {
		return fmt.Errorf("config: docking.exhaustiveness must be ≥ 1, got %d", c.Docking.Exhaustiveness)
	}
	if c.Docking.NumModes < 1 {
		return fmt.Errorf("config: docking.num_modes must be ≥ 1, got %d", c.Docking.NumModes)
	}
	if c.Docking.EnergyRange < 1 {
		return fmt.Errorf("config: docking.energy_range must be ≥ 1, got %d", c.Docking.EnergyRange)
	}
	if c.Docking.BoxSize <= 0 {
		return fmt.Errorf("config: docking.box_size must be > 0, got %g", c.Docking.BoxSize)
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("config: server.rate_limit must be ≥ 0, got %g", c.Server.RateLimit)
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required when kafka is enabled")
		}
		if c.Kafka.RequestTopic == c.Kafka.Topic {
			return fmt.Errorf("config: kafka.request_topic must differ from kafka.topic")
		}
		switch c.Kafka.RequiredAcks {
		case "none", "one", "all":
		default:
			return fmt.Errorf("config: kafka.required_acks %q is invalid; expected none|one|all", c.Kafka.RequiredAcks)
		}
	}

	// Worker
	if c.Worker.HealthPort < 1 || c.Worker.HealthPort > 65535 {
		return fmt.Errorf("config: worker.health_port %d is out of range [1, 65535]", c.Worker.HealthPort)
	}
	if c.Worker.HealthPort == c.Server.Port {
		return fmt.Errorf("config: worker.health_port must differ from server.port")
	}

	return nil
}

//Personal.AI order the ending
