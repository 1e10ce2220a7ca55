package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "FLEETSURVEY"

// newViper builds a pre-configured Viper instance: YAML file type,
// FLEETSURVEY_ env prefix, automatic env binding, and a "." to "_" key
// replacer so "database.host" resolves to "FLEETSURVEY_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindKeys(v)
	return v
}

// bindKeys registers every known key so that Unmarshal sees environment-only
// values.  Viper ignores AutomaticEnv during Unmarshal for keys it has never
// seen in a file, default, or explicit bind.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.host", "server.port", "server.mode",
		"server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
		"database.host", "database.port", "database.user", "database.password",
		"database.database", "database.sslmode", "database.max_open_conns",
		"database.max_idle_conns", "database.conn_max_lifetime", "database.migrations_path",
		"redis.addr", "redis.password", "redis.db", "redis.lock_ttl", "redis.cache_ttl",
		"kafka.brokers", "kafka.consumer_group", "kafka.requested_topic", "kafka.completed_topic",
		"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.use_ssl", "minio.bucket",
		"worker.concurrency", "worker.shutdown_timeout",
		"docking.interval_months", "docking.class_overrides",
		"log.level", "log.format", "log.output",
	} {
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges FLEETSURVEY_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from FLEETSURVEY_* environment
// variables with no config file.  Preferred for containerised deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
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

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk.  Intended for hot-reloading
// non-critical settings such as log level; callers apply only the safe
// subset at runtime.  A change that fails to parse or validate is dropped
// without invoking onChange.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers are expected to have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad panics on any load error.  For use in main() where a config
// failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
