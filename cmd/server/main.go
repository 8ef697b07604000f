/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the storefront order-window service. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Load YAML configuration
  3. Open the rules store backend (sqlite, redis or memory) and wrap it
     in the TTL cache
  4. Seed the hard-coded default rules on first boot
  5. Configure the HTTP router and optional metrics listener
  6. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to the YAML configuration (default: configs/config.yaml)
  -port    Override the HTTP server port
  -db      Override the SQLite database path (":memory:" works)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration shape
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bistro/storefront/api"
	"github.com/bistro/storefront/checkout"
	"github.com/bistro/storefront/config"
	"github.com/bistro/storefront/metrics"
	"github.com/bistro/storefront/rulestore"
	"github.com/bistro/storefront/schedule"
	redisstore "github.com/bistro/storefront/store/redis"
	sqlitestore "github.com/bistro/storefront/store/sqlite"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to YAML configuration")
	port := flag.Int("port", 0, "override HTTP server port")
	dbPath := flag.String("db", "", "override SQLite database path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "" {
			logger.Fatal().Err(err).Msg("failed to load configuration")
		}
		logger.Warn().Err(err).Msg("no configuration file, using defaults")
		cfg = config.Default()
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Store.SQLitePath = *dbPath
	}

	metrics.Register()

	// Rules store backend
	backend, closeStore, err := openBackend(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open rules store")
	}
	defer closeStore()

	store := rulestore.NewCached(backend, logger,
		rulestore.WithTTL(cfg.CacheTTL()),
		rulestore.WithReadTimeout(cfg.StoreReadTimeout()),
	)

	// First boot: persist the hard-coded defaults so the admin UI has a
	// full aggregate to edit.
	if err := seedDefaults(store, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed default rules")
	}

	validator := schedule.Validator{GraceMinutes: cfg.Ordering.GraceMinutes}

	co := checkout.NewService(store, paymentGateway(logger), kitchenNotifier(logger), validator, logger)

	admin := api.AdminCredential{Username: cfg.Admin.Username, PasswordHash: cfg.Admin.PasswordHash}
	if admin.PasswordHash == "" {
		logger.Warn().Msg("no admin password hash configured; rules mutation is disabled")
	}

	handler := api.NewHandler(store, admin, co, validator, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins:          cfg.Server.CORSOrigins,
		AdminWritesPerMinute: cfg.Admin.WritesPerMinute,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(cfg.Monitoring.PrometheusPort, logger)
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server stopped")
}

// openBackend builds the configured rules store backend and returns a
// close function for whatever resources it holds.
func openBackend(cfg *config.Config, logger zerolog.Logger) (rulestore.Store, func(), error) {
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := sqlitestore.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.Redis.Address,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		return redisstore.New(client), func() { client.Close() }, nil
	case "memory":
		logger.Warn().Msg("memory rules store: configuration will not survive a restart")
		return rulestore.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func seedDefaults(store *rulestore.Cached, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := store.Read(ctx)
	if errors.Is(err, schedule.ErrRulesNotFound) {
		logger.Info().Msg("seeding default business rules")
		rules := schedule.DefaultRules()
		rules.LastUpdated = time.Now().UTC()
		return store.Write(ctx, rules)
	}
	return err
}

func startMetricsServer(port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info().Int("port", port).Msg("metrics server starting")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}

// paymentGateway returns the configured payment adapter. The provider
// integration lives outside this repository; the log gateway keeps
// local development working end to end.
func paymentGateway(logger zerolog.Logger) checkout.Gateway {
	return checkout.LogGateway{Logger: logger}
}

func kitchenNotifier(logger zerolog.Logger) checkout.Notifier {
	return checkout.LogNotifier{Logger: logger}
}
