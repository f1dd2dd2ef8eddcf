package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	DEFAULT_PAGE_SIZE          = 20
	DEFAULT_RECONCILE_INTERVAL = 15 * time.Minute
)

type Config struct {
	Env               string
	Host              string
	Port              string
	DBDriver          string
	DSN               string
	RedisURL          string
	LedgerBackend     string
	JWTSecret         string
	KafkaBroker       string
	PageSize          int
	ReconcileInterval time.Duration
	LogDir            string
	MaintenanceMode   bool
}

// Load reads the process environment. A .env file, when present, has already
// been merged into it by godotenv.
func Load() *Config {
	cfg := &Config{
		Env:               getEnv("API_ENV", "local"),
		Host:              getEnv("APP_HOST", "localhost"),
		Port:              getEnv("PORT", "8080"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		RedisURL:          os.Getenv("REDIS_URL"),
		LedgerBackend:     strings.ToLower(getEnv("LEDGER_BACKEND", "sql")),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		KafkaBroker:       os.Getenv("KAFKA_BROKER"),
		PageSize:          getEnvInt("RESERVATIONS_PAGE_SIZE", DEFAULT_PAGE_SIZE),
		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", DEFAULT_RECONCILE_INTERVAL),
		LogDir:            getEnv("LOG_DIR", "logs"),
	}
	cfg.MaintenanceMode, _ = strconv.ParseBool(os.Getenv("MAINTENANCE_MODE"))
	cfg.DSN = os.Getenv("DATABASE_URL")
	if cfg.DSN == "" {
		if cfg.DBDriver == "sqlite" {
			cfg.DSN = getEnv("DATABASE_PATH", "exobooking.db")
		} else {
			cfg.DSN = GetDSN()
		}
	}
	return cfg
}

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := getEnv("DATABASE_SSLMODE", "disable")
	DATABASE_TIMEZONE := getEnv("DATABASE_TIMEZONE", "UTC")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
