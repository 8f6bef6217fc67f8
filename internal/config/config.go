package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	DatabaseDriver   string // "sqlite" or "postgres"
	DatabaseDSN      string
	JWTSecret        string
	CORSOrigins      string
	NotifyWebhookURL string // empty disables reminder delivery
	LowStockCron     string // daily low-stock digest schedule
}

func Load() *Config {
	// A missing .env is fine, configuration may come from the environment.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDriver:   getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "data/goyal.db"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		LowStockCron:     getEnv("LOW_STOCK_DIGEST_CRON", "0 8 * * *"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "postgres" {
		log.Fatalf("[FATAL] DATABASE_DRIVER must be sqlite or postgres, got %q", cfg.DatabaseDriver)
	}
	if cfg.NotifyWebhookURL == "" {
		log.Println("[WARN] NOTIFY_WEBHOOK_URL not set, event reminders will be dropped")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
