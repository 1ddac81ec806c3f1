// Command lifelog-worker mirrors the money ledger to Google Sheets. It reacts
// to tracker change events from AMQP and falls back to a periodic export.
package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"lifelog/internal/backend"
	"lifelog/internal/cli"
	"lifelog/internal/config"
	"lifelog/internal/kv/file"
	"lifelog/internal/log"
	"lifelog/internal/sheets"
	gsheet "lifelog/internal/sheets/google"
	mem "lifelog/internal/sheets/memory"
	"lifelog/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stdout).WithComponent(log.ComponentWorker)
	logger.Info("Starting lifelog-worker")

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to release backend", log.FieldError, err)
		}
	}()

	writer, err := ledgerWriter(cfg, logger)
	if err != nil {
		return err
	}
	exporter := worker.NewLedgerExporter(res.Store, cfg.DocumentKey, writer, logger)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, nil)
	g, gctx := errgroup.WithContext(ctx)

	// On startup, export whatever changed while the worker was down
	if _, err := exporter.ExportAll(gctx); err != nil {
		logger.Error("Failed startup export", log.FieldError, err)
	}

	if res.Events != nil {
		g.Go(func() error {
			return res.Events.ConsumeTrackerChanged(gctx, exporter.HandleTrackerChanged)
		})
	} else {
		logger.Info("Skipping AMQP message consumption - no AMQP_URL configured")
	}

	// Other processes write the data file; reload it and export on change.
	if fs, ok := res.Store.(*file.Store); ok {
		err := fs.Watch(gctx, func() {
			if _, err := exporter.ExportAll(gctx); err != nil {
				logger.Error("Export after file change failed", log.FieldError, err)
			}
		})
		if err != nil {
			logger.Warn("Failed to watch data file", log.FieldError, err)
		}
	}

	g.Go(func() error { return exporter.Run(gctx, cfg.ExportInterval) })

	err = g.Wait()
	if ctx.Err() != nil {
		<-done
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func ledgerWriter(cfg *config.Config, logger *log.Logger) (sheets.LedgerWriter, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled - exporting to memory")
		return mem.New(), nil
	}
	client, err := gsheet.New(context.Background(), gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}
