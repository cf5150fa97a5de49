package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/rentopedia/rentals-service/internal/utils"
)

const (
	AppName = "rentals-service"

	// Session lifetime; the login cookie max-age matches it.
	TokenTTL = 7 * 24 * time.Hour
)

type Config struct {
	Env     string
	AppName string
	AppPort string
	AppURL  string

	DBURL     string
	JWTSecret string

	// Optional integrations; empty disables them.
	AMQPURL           string
	AMQPQueueName     string
	SendgridAPIKey    string
	SendgridFromEmail string
}

// LoadConfig reads the environment (with .env support for local runs)
// and fails fast on anything required.
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		utils.Logger.Info("Loaded environment from .env")
	}

	cfg := &Config{
		Env:     getEnv("ENV", "dev"),
		AppName: AppName,
		AppPort: getEnv("APP_PORT", "8080"),
		AppURL:  getEnv("APP_URL", "http://localhost:3000"),

		DBURL:     mustEnv("DB_URL"),
		JWTSecret: mustEnv("JWT_SECRET"),

		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPQueueName: getEnv("AMQP_QUEUE", "rent-request-events"),

		SendgridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendgridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
	}

	if cfg.SendgridAPIKey != "" && cfg.SendgridFromEmail == "" {
		utils.Logger.Fatal("SENDGRID_FROM_EMAIL is required when SENDGRID_API_KEY is set")
	}

	utils.Logger.Infof("Loaded config for %s (%s)", cfg.AppName, cfg.Env)
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}
