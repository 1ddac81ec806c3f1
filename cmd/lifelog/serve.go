package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lifelog/internal/cli"
	apphttp "lifelog/internal/http"
	"lifelog/internal/log"
	"lifelog/internal/services"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and run the rollover on a timer",
		Args:  cobra.NoArgs,
		RunE:  withRuntime(runServe),
	}
}

func runServe(cmd *cobra.Command, _ []string, rt *cli.Runtime) error {
	cfg, logger := rt.Config, rt.Logger

	srv := apphttp.NewServer(apphttp.ServerConfig{
		Addr:    ":" + cfg.Port,
		Session: rt.Session,
		Logger:  logger,
		Ready: func(ctx context.Context) error {
			_, _, err := rt.Backend.Store.Get(ctx, cfg.DocumentKey)
			return err
		},
	})
	processor := services.NewRolloverProcessor(rt.Session, cfg.RolloverInterval, logger)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error { return processor.Run(gctx) })

	logger.Info("Starting lifelog server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"rollover_interval", cfg.RolloverInterval,
	)
	err := g.Wait()
	if ctx.Err() != nil {
		<-done
	} else if err != nil {
		// The server failed on its own; stop it without waiting for a signal.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	if err != nil {
		logger.Error("Server error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
