package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"stargate/pkg/platform/strings"
)

// EnvPrefix namespaces every environment variable read by the service.
const EnvPrefix = "STARGATE_"

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full service configuration. Values are layered:
// Default() first, then an optional YAML file, then STARGATE_* environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"HTTP_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
	Redis    RedisConfig    `yaml:"redis" envPrefix:"REDIS_"`
	Kafka    KafkaConfig    `yaml:"kafka" envPrefix:"KAFKA_"`
	Activity ActivityConfig `yaml:"activity" envPrefix:"ACTIVITY_"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr              string        `yaml:"addr" env:"ADDR"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// DatabaseConfig selects the storage backend.
// DSN is a file path/URI for sqlite and a connection URL for postgres.
type DatabaseConfig struct {
	Driver       string        `yaml:"driver" env:"DRIVER"`
	DSN          string        `yaml:"dsn" env:"DSN"`
	TxTimeout    time.Duration `yaml:"tx_timeout" env:"TX_TIMEOUT"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	AutoMigrate  bool          `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
}

// RedisConfig enables the distributed per-person lock. Empty URL keeps locking in-process.
type RedisConfig struct {
	URL          string        `yaml:"url" env:"URL"`
	LockTTL      time.Duration `yaml:"lock_ttl" env:"LOCK_TTL"`
	PoolSize     int           `yaml:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

// KafkaConfig enables fan-out of activity log entries. No brokers disables the sink.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers" env:"BROKERS" envSeparator:","`
	Topic    string   `yaml:"topic" env:"TOPIC"`
	ClientID string   `yaml:"client_id" env:"CLIENT_ID"`
}

type ActivityConfig struct {
	// AsyncBuffer > 0 writes activity entries through a buffered background worker.
	AsyncBuffer int `yaml:"async_buffer" env:"ASYNC_BUFFER"`
}

// Default returns a Config suitable for local development against a SQLite file.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			RequestTimeout:    30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			DSN:          "stargate.db",
			TxTimeout:    5 * time.Second,
			MaxOpenConns: 10,
			AutoMigrate:  true,
		},
		Redis: RedisConfig{
			LockTTL:      10 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:    "stargate.activity",
			ClientID: "stargate",
		},
		Activity: ActivityConfig{AsyncBuffer: 256},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Kafka.Brokers = strings.DedupeAndTrim(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overlays STARGATE_* environment variables onto target.
// Unset variables leave existing values untouched.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if !slices.Contains([]string{DriverSQLite, DriverPostgres, DriverMemory}, c.Database.Driver) {
		return fmt.Errorf("database.driver must be one of sqlite, postgres, memory: got %q", c.Database.Driver)
	}
	if c.Database.Driver != DriverMemory && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
	if c.Database.TxTimeout <= 0 {
		return fmt.Errorf("database.tx_timeout must be positive")
	}
	if c.Redis.URL != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis.lock_ttl must be positive when redis is configured")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are configured")
	}
	if c.Activity.AsyncBuffer < 0 {
		return fmt.Errorf("activity.async_buffer must not be negative")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text: got %q", c.Log.Format)
	}
	return nil
}
