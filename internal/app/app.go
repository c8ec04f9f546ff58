package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/adapters/cache"
	"storefront/internal/adapters/httpclient"
	"storefront/internal/adapters/postgres"
	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/currency"
	"storefront/internal/currency/handler"
	"storefront/internal/platform/db"
	httpserver "storefront/internal/platform/http"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts the HTTP server and the
// background rate refresh scheduler.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(startupCtx, appCfg.DbServer); err != nil {
		logrus.WithError(err).Error("Failed to apply migrations")
		return err
	}
	logrus.Info("✅ Schema migrations applied")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.Provider.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External rate provider
	providerClient := httpclient.NewFxProviderClient(baseHTTPClient, appCfg.Provider.URL)

	// Repositories
	rateRepo := postgres.NewRateRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool)

	// In-memory memo cache for resolved rates
	rateCache, err := cache.NewRateCache(appCfg.Cache.MaxItems)
	if err != nil {
		logrus.WithError(err).Error("Failed to create rate cache")
		return err
	}
	defer rateCache.Close()

	// Services
	settings := currency.Settings{
		BaseCurrency:        appCfg.Currency.Base,
		SupportedCurrencies: appCfg.Currency.SupportedList(),
		TTL:                 time.Duration(appCfg.Currency.TTLSeconds) * time.Second,
		ProviderName:        appCfg.Provider.Name,
	}
	currencyService := currency.NewService(rateRepo, providerClient, rateCache, settings)
	snapshotService := currency.NewSnapshotService(snapshotRepo, providerClient, settings)

	// Background refresh scheduler
	floor := time.Duration(appCfg.Scheduler.MinIntervalSeconds) * time.Second
	scheduler := currency.NewScheduler(currencyService, settings.TTL, floor)
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	currencyHandler := handler.NewCurrencyHandler(currencyService, snapshotService)
	router := api.NewRouter(currencyHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
