package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	ServiceName string `yaml:"service_name"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Backend     string `yaml:"store_backend"`
	DataDir     string `yaml:"data_dir"`
	DatabaseURL string `yaml:"database_url"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	EventsTopic  string   `yaml:"events_topic"`
}

func Defaults() Config {
	return Config{
		ServiceName: "marketplace",
		LogLevel:    "info",
		LogFormat:   "json",
		Backend:     BackendCSV,
		DataDir:     "data",
		EventsTopic: "marketplace_events",
	}
}

// Load layers configuration: defaults, then .env, then the YAML file at path
// (or MARKET_CONFIG when path is empty), then environment variables.
func Load(path string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path == "" {
		path = os.Getenv("MARKET_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config file %s: %w", path, err)
		}
	}

	cfg.ServiceName = EnvDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.LogLevel = EnvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = EnvDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Backend = strings.ToLower(EnvDefault("STORE_BACKEND", cfg.Backend))
	cfg.DataDir = EnvDefault("DATA_DIR", cfg.DataDir)
	cfg.DatabaseURL = EnvDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.EventsTopic = EnvDefault("EVENTS_TOPIC", cfg.EventsTopic)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = CSV(v)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendCSV:
		if c.DataDir == "" {
			return fmt.Errorf("%w: DATA_DIR is required for the csv backend", ErrInvalid)
		}
	case BackendSQLite, BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the %s backend", ErrInvalid, c.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalid, c.Backend)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown LOG_FORMAT %q", ErrInvalid, c.LogFormat)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
