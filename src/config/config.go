package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	MigrationsPath string
	AllowedOrigins []string
	PlaidClientID  string
	PlaidSecret    string
	PlaidEnv       string
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "src/db/migrations"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		PlaidClientID:  getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:    getEnv("PLAID_SECRET", ""),
		PlaidEnv:       getEnv("PLAID_ENV", "sandbox"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
