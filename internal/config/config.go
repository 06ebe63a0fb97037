// Package config loads the dashboard settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Addr             string
	APIURL           string
	NotificationsURL string
	SyncInterval     time.Duration
	HTTPTimeout      time.Duration
	PageSize         int
	AutoRefresh      bool

	SessionStore  string
	SessionDBPath string
	RedisAddr     string

	LogLevel     string
	OTelEnabled  bool
	ServiceName  string
	OTLPEndpoint string
}

// Load reads .env (when present) and then the process environment. Variables
// already set in the environment take precedence over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	var errs []error

	cfg := Config{
		Addr:             getEnv("DASHBOARD_ADDR", ":8090"),
		APIURL:           getEnv("SWAPSHOP_API_URL", "http://localhost:8001"),
		NotificationsURL: getEnv("NOTIFICATIONS_URL", "http://localhost:8002"),
		SessionStore:     strings.ToLower(getEnv("SESSION_STORE", StoreSQLite)),
		SessionDBPath:    getEnv("SESSION_DB_PATH", "./data/dashboard.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ServiceName:      getEnv("OTEL_SERVICE_NAME", "swapshop-dashboard"),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.SyncInterval, err = getDuration("SYNC_INTERVAL", 3*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.PageSize, err = getInt("NOTIF_PAGE_SIZE", 3); err != nil {
		errs = append(errs, err)
	}
	if cfg.AutoRefresh, err = getBool("AUTO_REFRESH", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.OTelEnabled, err = getBool("OTEL_ENABLED", false); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.SessionStore {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("config: SESSION_STORE must be sqlite, redis or memory, got %q", c.SessionStore)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("config: SYNC_INTERVAL must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("config: NOTIF_PAGE_SIZE must be positive")
	}
	if c.APIURL == "" || c.NotificationsURL == "" {
		return fmt.Errorf("config: SWAPSHOP_API_URL and NOTIFICATIONS_URL are required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
