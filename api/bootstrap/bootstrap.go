package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	database "github.com/tbeaudouin05/stripe-plugin/api/database"
	"github.com/tbeaudouin05/stripe-plugin/api/logger"
	redisclient "github.com/tbeaudouin05/stripe-plugin/api/redis"
	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
	"github.com/tbeaudouin05/stripe-plugin/api/services/stripe/cache"
	stripedb "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/db"
	stripegw "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/gateway/stripe"
)

var (
	stripeService stripeapp.Service
	store         *stripedb.Store
	redisClient   *goredis.Client
	initOnce      sync.Once
	initErr       error
)

// Init initializes config, logging, database and third-party clients, and wires services.
func Init() error {
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if stripeService != nil {
		return nil
	}
	var err error
	if config.AppConfig == nil {
		config.AppConfig, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	slog.SetDefault(logger.New(os.Stdout, config.AppConfig.LogLevel))

	if err := database.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	store = stripedb.New(database.GetDB())

	events, err := newEventLog(context.Background(), config.AppConfig)
	if err != nil {
		return err
	}

	stripegw.SetAppInfo()
	if err := stripeapp.WarmCodecs(); err != nil {
		slog.Warn("failed to warm json codecs", "err", err)
	}

	stripeService = stripeapp.NewService(stripegw.Factory, store, events)
	return nil
}

// newEventLog keeps webhook dedup in Redis when REDIS_URL is set, otherwise in Postgres.
func newEventLog(ctx context.Context, cfg *config.Config) (stripeapp.EventLog, error) {
	if cfg.RedisURL == "" {
		slog.Info("webhook event log backend", "backend", "postgres")
		return store, nil
	}
	client, err := redisclient.New(ctx, redisclient.Config{URL: cfg.RedisURL})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	redisClient = client
	slog.Info("webhook event log backend", "backend", "redis", "ttl", cfg.WebhookEventTTL)
	return cache.NewEventLog(client, cfg.WebhookEventTTL), nil
}

func GetStripeService() stripeapp.Service { return stripeService }

// SetStripeService allows tests to inject a stub implementation.
func SetStripeService(s stripeapp.Service) { stripeService = s }

// GetStore returns the Postgres store wired by Init, nil before it.
func GetStore() *stripedb.Store { return store }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}

// Close releases the connections opened by Init.
func Close() error {
	var firstErr error
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			firstErr = err
		}
		redisClient = nil
	}
	if err := database.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
