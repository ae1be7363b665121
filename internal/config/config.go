package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	LogLevel         string
	HTTPListenAddr   string
	VerifyToken      string
	WhatsAppToken    string
	PhoneNumberID    string
	GraphAPIBase     string
	OGRAAPIBase      string
	OGRATimeout      time.Duration
	ScrapeTimeout    time.Duration
	DatabaseURL      string
	SQLitePath       string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	MetricsNamespace string
	SessionTTL       time.Duration
	PriceCacheTTL    time.Duration
}

// Load returns configuration populated from environment variables with fallbacks.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:           getenvDefault("APP_ENV", "development"),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:   getenvDefault("HTTP_LISTEN_ADDR", ":8080"),
		VerifyToken:      trimmedEnv("VERIFY_TOKEN"),
		WhatsAppToken:    trimmedEnv("WHATSAPP_TOKEN"),
		PhoneNumberID:    trimmedEnv("PHONE_NUMBER_ID"),
		GraphAPIBase:     getenvDefault("GRAPH_API_BASE", "https://graph.facebook.com/v19.0"),
		OGRAAPIBase:      trimmedEnv("OGRA_API_BASE"),
		DatabaseURL:      trimmedEnv("DATABASE_URL"),
		SQLitePath:       getenvDefault("SQLITE_PATH", "data/fuelbot.db"),
		RedisAddr:        trimmedEnv("REDIS_ADDR"),
		RedisPassword:    trimmedEnv("REDIS_PASSWORD"),
		MetricsNamespace: getenvDefault("METRICS_NAMESPACE", "fuelbot"),
	}

	var err error

	ograTimeoutStr := getenvDefault("OGRA_TIMEOUT", "10s")
	if cfg.OGRATimeout, err = time.ParseDuration(ograTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid OGRA_TIMEOUT duration: %w", err)
	}

	scrapeTimeoutStr := getenvDefault("SCRAPE_TIMEOUT", "15s")
	if cfg.ScrapeTimeout, err = time.ParseDuration(scrapeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid SCRAPE_TIMEOUT duration: %w", err)
	}

	sessionTTLStr := getenvDefault("SESSION_TTL", "24h")
	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL duration: %w", err)
	}

	priceTTLStr := getenvDefault("PRICE_CACHE_TTL", "5m")
	if cfg.PriceCacheTTL, err = time.ParseDuration(priceTTLStr); err != nil {
		return nil, fmt.Errorf("invalid PRICE_CACHE_TTL duration: %w", err)
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, convErr := strconv.Atoi(redisDBStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", convErr)
		}
		cfg.RedisDB = db
	}

	if cfg.VerifyToken == "" {
		return nil, fmt.Errorf("VERIFY_TOKEN is required")
	}
	if cfg.WhatsAppToken == "" {
		return nil, fmt.Errorf("WHATSAPP_TOKEN is required")
	}
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("PHONE_NUMBER_ID is required")
	}

	cfg.GraphAPIBase = strings.TrimRight(cfg.GraphAPIBase, "/")
	cfg.OGRAAPIBase = strings.TrimRight(cfg.OGRAAPIBase, "/")

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
