package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr        = ":8080"
	defaultDatabaseURL = "files.db"
	defaultSessionDB   = "sessions.db"
	defaultStorageRoot = "/tmp/files_manager"
	defaultSessionTTL  = "24h"
	defaultQueueSize   = "64"
	defaultWorkers     = "2"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	SessionDBPath string
	SessionTTL    time.Duration
	StorageRoot   string
	QueueSize     int
	WorkerCount   int
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:          strings.TrimSpace(getEnv("ADDR", defaultAddr)),
		DatabaseURL:   strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL)),
		SessionDBPath: strings.TrimSpace(getEnv("SESSION_DB_PATH", defaultSessionDB)),
		StorageRoot:   strings.TrimSpace(getEnv("FOLDER_PATH", defaultStorageRoot)),
	}

	var err error
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.QueueSize, err = parseIntEnv("THUMBNAIL_QUEUE_SIZE", defaultQueueSize)
	if err != nil {
		return nil, err
	}
	cfg.WorkerCount, err = parseIntEnv("THUMBNAIL_WORKERS", defaultWorkers)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.StorageRoot == "" {
		return fmt.Errorf("FOLDER_PATH must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.QueueSize <= 0 {
		return fmt.Errorf("THUMBNAIL_QUEUE_SIZE must be > 0")
	}
	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("THUMBNAIL_WORKERS must be > 0")
	}
	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
