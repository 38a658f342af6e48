package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// DispatchTimeout bounds every outbound webhook call, in seconds.
	DispatchTimeout int
	// DispatchRate caps outbound webhook calls per second.
	DispatchRate float64
	// DispatchBurst is the rate limiter burst size.
	DispatchBurst int
	// WebhookCacheTTL is the registry resolve cache TTL, in seconds.
	WebhookCacheTTL int

	// DedupWindow is the placeholder match window for inbound
	// reconciliation, in minutes.
	DedupWindow int

	// SweepInterval is how often the stuck-state sweeper runs, in seconds.
	SweepInterval int
	// SweepGrace is added on top of DispatchTimeout before an in-flight
	// insight is considered stuck, in seconds.
	SweepGrace int
}

func Load() *Config {
	return &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "9020"),
		DBHost:          getEnv("DB_HOST", "desk-db"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "desk_user"),
		DBPassword:      getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "desk_password"),
		DBName:          getEnv("DB_NAME", "desk_db"),
		DispatchTimeout: getEnvInt("DISPATCH_TIMEOUT_SECONDS", 90),
		DispatchRate:    getEnvFloat("DISPATCH_RATE_PER_SECOND", 5),
		DispatchBurst:   getEnvInt("DISPATCH_BURST", 5),
		WebhookCacheTTL: getEnvInt("WEBHOOK_CACHE_TTL_SECONDS", 30),
		DedupWindow:     getEnvInt("RECONCILE_DEDUP_WINDOW_MINUTES", 10),
		SweepInterval:   getEnvInt("SWEEP_INTERVAL_SECONDS", 60),
		SweepGrace:      getEnvInt("SWEEP_GRACE_SECONDS", 30),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
