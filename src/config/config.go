package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	LogLevel string

	AllowedOrigins      []string
	MaxRequestBodyBytes int64
	RateLimitInterval   time.Duration
	RateLimitBurst      int

	// Mock market data
	MockPricesPath     string // optional YAML file with per-symbol baselines
	PriceJitterPercent float64
	PriceCacheTTL      time.Duration

	PriceLookupConcurrency int
	AnalysisCacheTTL       time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	jitter := getEnvAsFloat("PRICE_JITTER_PERCENT", 5)
	if jitter < 0 || jitter >= 100 {
		log.Printf("WARNING: PRICE_JITTER_PERCENT must be in [0, 100). Got %v, using default 5.", jitter)
		jitter = 5
	}

	concurrency := getEnvAsInt("PRICE_LOOKUP_CONCURRENCY", 4)
	if concurrency < 1 {
		log.Printf("WARNING: PRICE_LOOKUP_CONCURRENCY must be positive. Got %d, using 1.", concurrency)
		concurrency = 1
	}

	Cfg = &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		MaxRequestBodyBytes: getEnvAsInt64("MAX_REQUEST_BODY_BYTES", 1<<20),
		RateLimitInterval:   getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 30),

		MockPricesPath:     getEnv("MOCK_PRICES_PATH", ""),
		PriceJitterPercent: jitter,
		PriceCacheTTL:      getEnvAsDuration("PRICE_CACHE_TTL", time.Minute),

		PriceLookupConcurrency: concurrency,
		AnalysisCacheTTL:       getEnvAsDuration("ANALYSIS_CACHE_TTL", 15*time.Minute),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, AllowedOrigins=%v, MockPricesPath=%q",
		Cfg.Port, Cfg.LogLevel, Cfg.AllowedOrigins, Cfg.MockPricesPath)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
