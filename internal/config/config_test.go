package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "survey.recalc-requested", cfg.Kafka.RequestedTopic)
	assert.Equal(t, "survey.recalculated", cfg.Kafka.CompletedTopic)
	assert.Equal(t, "fleetsurvey-documents", cfg.MinIO.Bucket)
	assert.Equal(t, 36, cfg.Docking.IntervalMonths)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Docking.IntervalMonths = 30
	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Docking.IntervalMonths)
}

func TestApplyDefaultsNormalizesClassOverrides(t *testing.T) {
	cfg := &Config{}
	cfg.Docking.ClassOverrides = map[string]int{"dnv": 30, "Lr": 24}
	ApplyDefaults(cfg)

	assert.Equal(t, map[string]int{"DNV": 30, "LR": 24}, cfg.Docking.ClassOverrides)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "verbose" }, "server.mode"},
		{"no db host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"no redis addr", func(c *Config) { c.Redis.Addr = "" }, "redis.addr"},
		{"empty broker", func(c *Config) { c.Kafka.Brokers = []string{" "} }, "kafka.brokers"},
		{"zero concurrency", func(c *Config) { c.Worker.Concurrency = -1 }, "worker.concurrency"},
		{"zero docking", func(c *Config) { c.Docking.IntervalMonths = -3 }, "docking.interval_months"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = "secret"

	dsn := cfg.Database.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=fleetsurvey")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9091
  mode: debug
database:
  host: db.internal
docking:
  interval_months: 30
  class_overrides:
    DNV: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9091, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30, cfg.Docking.IntervalMonths)
	assert.Equal(t, 30, cfg.Docking.ClassOverrides["DNV"])
	// Unset sections fall back to defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: bogus\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FLEETSURVEY_SERVER_PORT", "9999")
	t.Setenv("FLEETSURVEY_DATABASE_HOST", "pg.internal")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "pg.internal", cfg.Database.Host)
}
