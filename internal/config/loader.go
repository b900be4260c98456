package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "DOCKPREP"

// boundKeys lists every leaf key so that Unmarshal sees environment overrides
// even when the key is absent from the config file.
var boundKeys = []string{
	"log.level", "log.format", "log.output",
	"substituents.path", "substituents.placeholder", "substituents.strict",
	"derivatives.format", "derivatives.sink", "derivatives.obabel_path",
	"derivatives.max_count", "derivatives.concurrency",
	"docking.exhaustiveness", "docking.num_modes", "docking.energy_range", "docking.box_size",
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout", "server.max_expansion",
	"server.rate_limit", "server.rate_limit_burst",
	"metrics.enabled", "metrics.namespace", "metrics.path",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
	"redis.default_ttl", "redis.key_prefix",
	"kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.request_topic", "kafka.group_id", "kafka.batch_size",
	"kafka.batch_timeout", "kafka.max_retries", "kafka.required_acks",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.prefix", "minio.use_ssl",
	"worker.health_port", "worker.handler_timeout",
}

// newViper builds a pre-configured Viper instance: YAML file type, DOCKPREP_
// env prefix, automatic env binding, and a key replacer that maps "." → "_"
// so that nested keys like "derivatives.format" resolve to
// "DOCKPREP_DERIVATIVES_FORMAT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range boundKeys {
		_ = v.BindEnv(key)
	}
	v.SetDefault("substituents.strict", true)
	return v
}

// Load reads the YAML file at configPath, merges any DOCKPREP_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from DOCKPREP_* environment variables,
// with no config file required.
//
//	DOCKPREP_<SECTION>_<FIELD>   e.g.  DOCKPREP_SUBSTITUENTS_PATH
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrDefault loads configPath when it is non-empty and falls back to
// LoadFromEnv otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk.  Invalid changes are skipped.  Watch is
// non-blocking; the goroutine is managed by viper.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is Load that panics on error, for use in main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
