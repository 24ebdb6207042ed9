package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"lupa/internal/amqp"
	"lupa/internal/cache"
	"lupa/internal/cli"
	"lupa/internal/fixtures"
	apphttp "lupa/internal/http"
	"lupa/internal/log"
	"lupa/internal/records"
	"lupa/internal/services"
)

func main() {
	seedDemo := flag.Bool("seed-demo", false, "insert demo transactions when the ledger is empty")
	reset := flag.Bool("reset", false, "remove all stored records and exit")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, stop := cli.SignalContext()
	defer stop()

	kv := cli.OpenStore(ctx, cfg, logger)
	defer func() {
		if err := kv.Cleanup(); err != nil {
			logger.Error("Failed to close data backend", "error", err)
		}
	}()

	store := records.New(kv.Store, records.WithLogger(logger.WithComponent(log.ComponentStorage).Logger))
	dashboard := services.NewDashboardService(store, cfg.DashboardCacheTTL)

	caches := cache.NewManager(logger.Logger)
	caches.Register(dashboard.Cache())
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	var publisher services.Publisher
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Ledger events enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Ledger events disabled - no AMQP_URL provided")
	}

	ledger := services.NewLedgerService(store, publisher, logger.WithComponent(log.ComponentLedger).Logger, dashboard)

	if *reset {
		if err := ledger.Reset(ctx); err != nil {
			logger.Error("Failed to reset data", "error", err)
			os.Exit(1)
		}
		logger.Info("All records removed", "backend", cfg.DataBackend)
		return
	}

	refresher := services.NewOverdueRefresher(store, logger.WithComponent(log.ComponentLedger).Logger, dashboard)
	if _, err := refresher.Refresh(ctx); err != nil {
		logger.Error("Startup overdue refresh failed", "error", err)
	}

	if *seedDemo || cfg.SeedDemo {
		seed(ctx, ledger, logger)
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger, dashboard,
		apphttp.WithRateLimit(cfg.RateLimitPerMinute),
		apphttp.WithLogger(logger.WithComponent(log.ComponentHTTP)))

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting lupa server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// seed fills an empty ledger with demo data.
func seed(ctx context.Context, ledger *services.LedgerService, logger *log.Logger) {
	existing, err := ledger.ListTransactions(ctx, "")
	if err != nil {
		logger.Error("Failed to check ledger before seeding", "error", err)
		return
	}
	if len(existing) > 0 {
		logger.Info("Ledger not empty, skipping demo seed", "transactions", len(existing))
		return
	}
	txs, err := fixtures.Seed(ctx, ledger, 60, time.Now().UnixNano())
	if err != nil {
		logger.Error("Demo seed failed", "error", err, "inserted", len(txs))
		return
	}
	logger.Info("Seeded demo transactions", "count", len(txs))
}
