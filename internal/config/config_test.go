package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Address)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, DriverFile, cfg.Storage.Driver)
	require.Equal(t, "./data", cfg.Storage.DataDir)
	require.Equal(t, "contractors:dataset", cfg.Redis.Key)
	require.Equal(t, "@every 15m", cfg.Scheduler.OfferSweep)
	require.Equal(t, "0 8 * * *", cfg.Scheduler.ComplianceDigest)
	require.Empty(t, cfg.Admin.Token)
	require.Empty(t, cfg.Notifications.ToEmails)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "contractors.yaml")
	yaml := `
server:
  address: ":9090"
storage:
  driver: redis
redis:
  addr: "localhost:6379"
logging:
  format: json
notifications:
  to_emails: ["ops@example.com"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("REDIS_KEY", "custom:key")
	t.Setenv("NOTIFICATIONS_SMS_NUMBERS", "+15550001, +15550002")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Address)
	require.Equal(t, DriverRedis, cfg.Storage.Driver)
	require.Equal(t, "secret", cfg.Admin.Token)
	require.Equal(t, "custom:key", cfg.Redis.Key)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, []string{"ops@example.com"}, cfg.Notifications.ToEmails)
	require.Equal(t, []string{"+15550001", "+15550002"}, cfg.Notifications.SMSNumbers)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOGGING_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LOGGING_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Storage:   StorageConfig{Driver: DriverFile, DataDir: "./data"},
			Logging:   LoggingConfig{Format: "console"},
			Scheduler: SchedulerConfig{Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid file", func(*Config) {}, ""},
		{"postgres without conn", func(c *Config) { c.Storage.Driver = DriverPostgres }, "postgres.conn"},
		{"postgres with conn", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Postgres.Conn = "postgres://localhost/contractors"
		}, ""},
		{"redis without addr", func(c *Config) { c.Storage.Driver = DriverRedis }, "redis.addr"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "unknown storage.driver"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }, "scheduler.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
