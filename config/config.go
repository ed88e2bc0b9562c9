package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"iwingmobile-store/db"
)

// Slot drivers
const (
	SlotDriverPostgres = "postgres"
	SlotDriverSQLite   = "sqlite"
	SlotDriverMemory   = "memory"
	SlotDriverDynamo   = "dynamodb"
)

// DefaultSlotPrefix is the storage key the storefront has always used for carts
const DefaultSlotPrefix = "iwingmobile-cart"

type Config struct {
	Env      string
	Port     string
	LogLevel string

	Database db.PostgresConfig

	CartSlotDriver string
	CartSQLitePath string
	CartSlotPrefix string
	Dynamo         db.DynamoConfig

	// CartSessionCacheSize caps the carts kept in memory; CartSessionIdleTTL
	// drops carts untouched for that long (negative disables it)
	CartSessionCacheSize int
	CartSessionIdleTTL   time.Duration

	ChromePath      string
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment.
// .env files are loaded by main before this runs.
func Load() (Config, error) {
	cfg := Config{
		Env:      getEnv("ENV", "dev"),
		Port:     strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: db.PostgresConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},
		CartSlotDriver:       strings.ToLower(getEnv("CART_SLOT_DRIVER", SlotDriverPostgres)),
		CartSQLitePath:       getEnv("CART_SQLITE_PATH", "data/carts.db"),
		CartSlotPrefix:       getEnv("CART_SLOT_PREFIX", DefaultSlotPrefix),
		CartSessionCacheSize: getEnvInt("CART_SESSION_CACHE_SIZE", 10000),
		CartSessionIdleTTL:   getEnvDuration("CART_SESSION_IDLE_TTL", 30*time.Minute),
		ChromePath:           os.Getenv("CHROME_PATH"),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Dynamo: db.DynamoConfig{
			Region:   os.Getenv("AWS_REGION"),
			Table:    os.Getenv("DYNAMODB_TABLE_NAME"),
			Endpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		},
	}

	switch cfg.CartSlotDriver {
	case SlotDriverPostgres, SlotDriverSQLite, SlotDriverMemory:
	case SlotDriverDynamo:
		if cfg.Dynamo.Table == "" {
			return Config{}, fmt.Errorf("DYNAMODB_TABLE_NAME is required when CART_SLOT_DRIVER=dynamodb")
		}
	default:
		return Config{}, fmt.Errorf("invalid CART_SLOT_DRIVER %q: use postgres, sqlite, dynamodb or memory", cfg.CartSlotDriver)
	}

	if cfg.CartSessionCacheSize < 1 {
		return Config{}, fmt.Errorf("invalid CART_SESSION_CACHE_SIZE %d: must be at least 1", cfg.CartSessionCacheSize)
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare numbers are seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
