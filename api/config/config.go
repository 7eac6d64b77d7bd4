package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig holds the global application configuration
var AppConfig *Config

// Config holds the process configuration. Payment method args (Stripe keys,
// toggles) are not here: they live in the host's config store.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	// Optional: when set, processed webhook events are tracked in Redis instead of Postgres
	RedisURL string `env:"REDIS_URL"`
	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string `env:"INTEGRATION_BASE_URL"`
	// Server ports
	HTTPPort string `env:"PORT" envDefault:"8080"`
	GRPCPort string `env:"GRPC_PORT" envDefault:"50051"`

	WebhookPath      string        `env:"WEBHOOK_PATH" envDefault:"/stripe/webhook"`
	WebhookRateLimit float64       `env:"WEBHOOK_RATE_LIMIT" envDefault:"20"`
	WebhookRateBurst int           `env:"WEBHOOK_RATE_BURST" envDefault:"40"`
	WebhookEventTTL  time.Duration `env:"WEBHOOK_EVENT_TTL" envDefault:"72h"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.WebhookPath == "" || cfg.WebhookPath[0] != '/' {
		return nil, fmt.Errorf("WEBHOOK_PATH must start with '/', got %q", cfg.WebhookPath)
	}
	return &cfg, nil
}

// loadDotEnv loads the nearest .env file from the current directory or its parents.
// Variables already present in the environment win.
func loadDotEnv() error {
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("failed to load .env file: %v", err)
			}
			return nil
		}
		// Move up one directory
		currentDir = filepath.Dir(currentDir)
	}
	return nil
}
