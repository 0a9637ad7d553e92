// Package db provides key-value blob persistence for the candidate collection.
package db

import (
	"context"
	"fmt"
)

// DefaultKey is the blob key the candidate collection is stored under.
const DefaultKey = "candidates"

// Supported backend drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Backend loads and saves one serialized blob.
type Backend interface {
	// Load returns the stored blob, or nil when nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored blob.
	Save(ctx context.Context, blob []byte) error
	// Close releases the backend's resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Path        string
	DatabaseURL string
	Key         string
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	switch opts.Driver {
	case DriverFile:
		return NewFileBackend(opts.Path), nil
	case DriverSQLite, "":
		return OpenSQLite(ctx, opts.Path, key)
	case DriverPostgres:
		return ConnectPostgres(ctx, opts.DatabaseURL, key)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
