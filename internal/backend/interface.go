package backend

import (
	"context"

	"lifelog/internal/amqp"
	"lifelog/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store, the optional event client and a cleanup
// function releasing both.
type BackendResult struct {
	Store kv.Store
	// Events is nil when AMQP is not configured or unreachable.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a store instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type      BackendType
	Namespace string

	// SQLite specific
	SQLiteDBPath string

	// File specific
	DataFilePath string

	// Optional change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
