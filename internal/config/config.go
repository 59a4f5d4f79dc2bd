package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

var ErrDevSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port           string
	Env            string
	StorageDriver  string
	DatabaseDSN    string
	MigrateOnStart bool
	SeedData       bool
	JWTSecret      string
	JWTExpiry      time.Duration
	AuthRateRPS    float64
	AuthRateBurst  int
	LogLevel       slog.Level
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMySQL)),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/recipebook?parseTime=true"),
		JWTSecret:     getEnv("JWT_SECRET", devJWTSecret),
	}

	var err error
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", true); err != nil {
		return Config{}, err
	}
	if cfg.SeedData, err = getBool("SEED_DATA", false); err != nil {
		return Config{}, err
	}
	if cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateRPS, err = getFloat("AUTH_RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateBurst, err = getInt("AUTH_RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.StorageDriver {
	case StorageMySQL, StorageMemory:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER: unsupported driver %q", cfg.StorageDriver)
	}

	if cfg.JWTExpiry <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRY: must be positive, got %s", cfg.JWTExpiry)
	}

	if cfg.IsProduction() && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrDevSecretInProduction
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
