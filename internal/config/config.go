package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Admin         AdminConfig        `mapstructure:"admin"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Postgres      PostgresConfig     `mapstructure:"postgres"`
	Redis         RedisConfig        `mapstructure:"redis"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Scheduler     SchedulerConfig    `mapstructure:"scheduler"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AdminConfig: пустой токен закрывает административные маршруты (403).
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

type StorageConfig struct {
	Driver  string `mapstructure:"driver"`
	DataDir string `mapstructure:"data_dir"`
}

type PostgresConfig struct {
	Conn         string `mapstructure:"conn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulerConfig: пустое расписание отключает задачу.
type SchedulerConfig struct {
	OfferSweep       string `mapstructure:"offer_sweep"`
	ComplianceDigest string `mapstructure:"compliance_digest"`
	Timezone         string `mapstructure:"timezone"`
}

type NotificationConfig struct {
	AWSRegion    string        `mapstructure:"aws_region"`
	FromEmail    string        `mapstructure:"from_email"`
	ToEmails     []string      `mapstructure:"to_emails"`
	SMSNumbers   []string      `mapstructure:"sms_numbers"`
	SlackToken   string        `mapstructure:"slack_token"`
	SlackChannel string        `mapstructure:"slack_channel"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

var defaults = map[string]any{
	"server.address":              "0.0.0.0:8080",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "30s",
	"server.shutdown_timeout":     "10s",
	"admin.token":                 "",
	"storage.driver":              DriverFile,
	"storage.data_dir":            "./data",
	"postgres.conn":               "",
	"postgres.max_open_conns":     10,
	"redis.addr":                  "",
	"redis.password":              "",
	"redis.db":                    0,
	"redis.key":                   "contractors:dataset",
	"logging.level":               "info",
	"logging.format":              "console",
	"scheduler.offer_sweep":       "@every 15m",
	"scheduler.compliance_digest": "0 8 * * *",
	"scheduler.timezone":          "UTC",
	"notifications.aws_region":    "us-east-1",
	"notifications.from_email":    "",
	"notifications.to_emails":     []string{},
	"notifications.sms_numbers":   []string{},
	"notifications.slack_token":   "",
	"notifications.slack_channel": "",
	"notifications.timeout":       "10s",
}

// Load читает .env, config.yaml (из ., ./configs или явного пути) и переменные
// окружения вида SERVER_ADDRESS, ADMIN_TOKEN, POSTGRES_CONN.
func Load(configFile string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Notifications.ToEmails = splitList(cfg.Notifications.ToEmails)
	cfg.Notifications.SMSNumbers = splitList(cfg.Notifications.SMSNumbers)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// splitList убирает пустые элементы и разбивает значения вида "a,b".
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataDir == "" {
			return errors.New("storage.data_dir is required for the file driver")
		}
	case DriverPostgres:
		if c.Postgres.Conn == "" {
			return errors.New("postgres.conn is required for the postgres driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required for the applications log")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone: %w", err)
	}
	return nil
}
