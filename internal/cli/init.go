// Package cli provides common CLI initialization utilities shared by
// cmd/lifelog and cmd/lifelog-worker.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lifelog/internal/backend"
	"lifelog/internal/config"
	"lifelog/internal/log"
	"lifelog/internal/services"
)

// SetupLogger initializes structured logging from LOG_LEVEL and LOG_FORMAT
// and sets it as the default logger.
func SetupLogger(out io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(os.Getenv("LOG_LEVEL")),
		Format:    os.Getenv("LOG_FORMAT"),
		Component: log.ComponentCLI,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		return nil, err
	}
	return cfg, nil
}

// Runtime bundles everything a command needs to work on the trackers.
type Runtime struct {
	Config    *config.Config
	Logger    *log.Logger
	Backend   *backend.BackendResult
	Persister *services.Persister
	Session   *services.Session
}

// Bootstrap opens the configured store, starts the persister and opens a
// session, which runs the streak rollover and the habit daily reset.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Runtime, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	persister := services.NewPersister(res.Store, cfg.DocumentKey, cfg.SaveTimeout, logger)
	scfg := services.SessionConfig{
		Key:    cfg.DocumentKey,
		Saver:  persister,
		Logger: logger,
	}
	if res.Events != nil {
		scfg.Events = res.Events
	}

	session, err := services.Open(ctx, res.Store, scfg)
	if err != nil {
		_ = persister.Close(ctx)
		_ = res.Cleanup()
		return nil, err
	}
	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Backend:   res,
		Persister: persister,
		Session:   session,
	}, nil
}

// Close drains the persister and releases the store.
func (r *Runtime) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.Config.SaveTimeout)
	defer cancel()
	perr := r.Persister.Close(ctx)
	cerr := r.Backend.Cleanup()
	if perr != nil {
		return fmt.Errorf("flush document: %w", perr)
	}
	return cerr
}

// Confirm asks a yes/no question on out and reads the answer from in.
// assumeYes skips the prompt.
func Confirm(in io.Reader, out io.Writer, prompt string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs once after the signal, bounded by timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
	}()

	return ctx, done
}
