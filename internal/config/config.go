package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	Environment string
	LogLevel    string

	DatabaseURL string

	PixupBaseURL       string
	PixupClientID      string
	PixupClientSecret  string
	PixupWebhookSecret string

	KafkaBrokers []string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServiceName: envDefault("SERVICE_NAME", "storefront"),
		ServerPort:  envIntDefault("SERVER_PORT", 8080),
		Environment: envDefault("ENVIRONMENT", "development"),
		LogLevel:    envDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		PixupBaseURL:       envDefault("PIXUP_BASE_URL", "https://api.pixupbr.com"),
		PixupClientID:      os.Getenv("PIXUP_CLIENT_ID"),
		PixupClientSecret:  os.Getenv("PIXUP_CLIENT_SECRET"),
		PixupWebhookSecret: os.Getenv("PIXUP_WEBHOOK_SECRET"),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
	}

	mustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	if cfg.Production() {
		// Without the shared secret the webhook would accept unsigned
		// payloads, so refuse to start instead of silently skipping checks.
		mustNonEmpty(cfg.PixupWebhookSecret, "PIXUP_WEBHOOK_SECRET")
	}

	return cfg
}

func (c *Config) Production() bool {
	return c.Environment == "production"
}

func mustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
