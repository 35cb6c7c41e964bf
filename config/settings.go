package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultPort = "8080"

// Settings is the process configuration, read once from the environment at start-up.
type Settings struct {
	Port string

	DBUser             string
	DBPassword         string
	DBHost             string
	DBPort             string
	DBName             string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	DBConnMaxIdleTime  time.Duration
	SkipMigrations     bool
	RedisAddress       string
	ClientCacheTTL     time.Duration
	PaymentLockEnabled bool
	PaymentLockTTL     time.Duration
	DebtIdMaxAttempts  int
	RateLimitEnabled   bool
	RateLimitMax       int64
	RateLimitWindow    time.Duration
	CorsAllowedOrigins string
	Production         bool
	PubSubProjectID    string
	PaymentEventsTopic string
	LogLevel           string
}

func init() {
	// Load env from .env
	godotenv.Load()
}

func LoadSettings() Settings {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	return Settings{
		Port:               port,
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBName:             os.Getenv("DB_NAME"),
		DBMaxOpenConns:     intFromEnv("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns:     intFromEnv("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime:  time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
		DBConnMaxIdleTime:  time.Duration(intFromEnv("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)) * time.Second,
		SkipMigrations:     boolFromEnv("SKIP_MIGRATIONS", false),
		RedisAddress:       strings.TrimSpace(os.Getenv("REDIS_ADDRESS")),
		ClientCacheTTL:     time.Duration(intFromEnv("CLIENT_CACHE_TTL_SECONDS", 0)) * time.Second,
		PaymentLockEnabled: boolFromEnv("PAYMENT_LOCK_ENABLED", true),
		PaymentLockTTL:     time.Duration(intFromEnv("PAYMENT_LOCK_TTL_SECONDS", 10)) * time.Second,
		DebtIdMaxAttempts:  intFromEnv("DEBT_ID_MAX_ATTEMPTS", 5),
		RateLimitEnabled:   boolFromEnv("RATE_LIMIT_ENABLED", false),
		RateLimitMax:       int64(intFromEnv("RATE_LIMIT_MAX_REQUESTS", 600)),
		RateLimitWindow:    time.Duration(intFromEnv("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		CorsAllowedOrigins: strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Production:         strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production"),
		PubSubProjectID:    getPubSubProjectID(),
		PaymentEventsTopic: strings.TrimSpace(os.Getenv("PAYMENT_EVENTS_TOPIC")),
		LogLevel:           strings.TrimSpace(os.Getenv("LOG_LEVEL")),
	}
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolFromEnv(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return def
	}
}

// SplitAndTrim splits a comma separated env value, dropping blanks.
func SplitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func retryDelay(attempt int) time.Duration {
	sleep := time.Second * time.Duration(1<<min(attempt, 5))
	if sleep > 30*time.Second {
		sleep = 30 * time.Second
	}
	return sleep
}
