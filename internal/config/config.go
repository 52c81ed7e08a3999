package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	cfg "github.com/Skotchmaster/storefront/pkg/config"
)

type CredentialsBackend string

const (
	BackendMemory CredentialsBackend = "memory"
	BackendSQL    CredentialsBackend = "sql"
	BackendRedis  CredentialsBackend = "redis"
)

type Config struct {
	Addr       string
	APIBaseURL string
	APITimeout time.Duration

	CredentialsBackend CredentialsBackend
	CredentialsDSN     string
	CredentialsKey     string
	RedisURL           string

	KafkaBrokers   []string
	StrictOrdering bool
	LogLevel       string
	TraceStdout    bool
}

// Load reads .env when present and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("dotenv_skipped", "reason", err.Error())
	}

	c := &Config{
		Addr:               cfg.EnvDefault("STOREFRONT_ADDR", ":8080"),
		APIBaseURL:         cfg.EnvDefault("API_BASE_URL", "http://localhost:8081/api"),
		APITimeout:         cfg.EnvDurationDefault("API_TIMEOUT", 5*time.Second),
		CredentialsBackend: CredentialsBackend(strings.ToLower(cfg.EnvDefault("CREDENTIALS_BACKEND", string(BackendSQL)))),
		CredentialsDSN:     cfg.EnvDefault("CREDENTIALS_DSN", "storefront.db"),
		CredentialsKey:     cfg.EnvDefault("CREDENTIALS_KEY", ""),
		RedisURL:           cfg.EnvDefault("REDIS_URL", ""),
		KafkaBrokers:       cfg.CSV(cfg.EnvDefault("KAFKA_BROKERS", "")),
		StrictOrdering:     cfg.EnvBoolDefault("STRICT_ORDERING", false),
		LogLevel:           cfg.EnvDefault("LOG_LEVEL", "info"),
		TraceStdout:        cfg.EnvBoolDefault("TRACE_STDOUT", false),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := cfg.RequireNonEmpty(c.APIBaseURL, "API_BASE_URL"); err != nil {
		errs = append(errs, err)
	}
	switch c.CredentialsBackend {
	case BackendMemory:
	case BackendSQL:
		if err := cfg.RequireNonEmpty(c.CredentialsDSN, "CREDENTIALS_DSN"); err != nil {
			errs = append(errs, err)
		}
	case BackendRedis:
		if err := cfg.RequireNonEmpty(c.RedisURL, "REDIS_URL"); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CREDENTIALS_BACKEND %q", c.CredentialsBackend))
	}
	return errors.Join(errs...)
}
