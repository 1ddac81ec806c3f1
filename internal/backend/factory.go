package backend

import (
	"context"
	"errors"
	"fmt"

	"lifelog/internal/amqp"
	"lifelog/internal/kv"
	"lifelog/internal/kv/file"
	"lifelog/internal/kv/memory"
	"lifelog/internal/log"
	"lifelog/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Namespace == "" {
		config.Namespace = kv.DefaultNamespace
	}

	var (
		store   kv.Store
		closers []func() error
	)
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.Namespace)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		store, closers = repo, append(closers, repo.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend",
			log.FieldPath, config.SQLiteDBPath,
			log.FieldNamespace, config.Namespace)
	case FileBackend:
		fs, err := file.Open(config.DataFilePath, config.Namespace, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		store, closers = fs, append(closers, fs.Close)
		f.logger.InfoContext(ctx, "Initialized file backend",
			log.FieldPath, config.DataFilePath,
			log.FieldNamespace, config.Namespace)
	case MemoryBackend:
		store = memory.New(config.Namespace)
		f.logger.InfoContext(ctx, "Initialized memory backend", log.FieldNamespace, config.Namespace)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional; the trackers work without change events.
	var events *amqp.Client
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			events = client
			closers = append(closers, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	return &BackendResult{
		Store:  store,
		Events: events,
		Cleanup: func() error {
			var errs []error
			for i := len(closers) - 1; i >= 0; i-- {
				errs = append(errs, closers[i]())
			}
			return errors.Join(errs...)
		},
	}, nil
}
