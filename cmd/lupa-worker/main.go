package main

import (
	"context"
	"os"

	"lupa/internal/amqp"
	"lupa/internal/cli"
	"lupa/internal/config"
	"lupa/internal/log"
	"lupa/internal/records"
	"lupa/internal/services"
	"lupa/internal/sheets"
	gsheet "lupa/internal/sheets/google"
	memsheet "lupa/internal/sheets/memory"
	"lupa/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting lupa-worker")

	ctx, stop := cli.SignalContext()
	defer stop()

	kv := cli.OpenStore(ctx, cfg, logger)
	defer func() {
		if err := kv.Cleanup(); err != nil {
			logger.Error("Failed to close data backend", "error", err)
		}
	}()
	if cfg.DataBackend == "memory" {
		logger.Warn("Memory backend is private to this process; the worker will not see the server's records")
	}

	store := records.New(kv.Store, records.WithLogger(logger.WithComponent(log.ComponentStorage).Logger))

	refresher := services.NewOverdueRefresher(store, logger.WithComponent(log.ComponentScheduler).Logger)
	scheduler, err := worker.NewScheduler("overdue-refresh", cfg.OverdueSchedule, refresher.Run,
		logger.WithComponent(log.ComponentScheduler).Logger)
	if err != nil {
		logger.Error("Invalid overdue schedule", "error", err, "schedule", cfg.OverdueSchedule)
		os.Exit(1)
	}
	tasks := []worker.Task{scheduler.Run}

	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		exporter := newExporter(ctx, cfg, logger)
		export := worker.NewExportWorker(store, exporter, logger.WithComponent(log.ComponentSheets).Logger)
		tasks = append(tasks, func(ctx context.Context) error {
			return client.Consume(ctx, export.HandleEvent)
		})
		logger.Info("Consuming ledger events", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Skipping sheet export - no AMQP_URL provided")
	}

	if err := worker.Run(ctx, tasks...); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// newExporter writes to Google Sheets when a spreadsheet is configured and
// keeps rows in memory otherwise.
func newExporter(ctx context.Context, cfg *config.Config, logger *log.Logger) sheets.TransactionExporter {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exporting to memory")
		return memsheet.New()
	}
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger.WithComponent(log.ComponentSheets).Logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client
}
