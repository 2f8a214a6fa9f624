// Package sqlite provides the public API for the SQLite plant store.
// It exposes the factory while keeping the implementation internal.
package sqlite

import (
	"log"
	"time"

	"github.com/mesh-intelligence/plantcare/internal/sqlite"
	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// Backend is a plant store that can also snapshot itself to JSONL.
type Backend interface {
	types.Store
	types.Snapshotter

	// Config returns the configuration the backend was created with.
	Config() types.Config
}

// Option configures a backend created by NewBackend.
type Option = sqlite.Option

// WithLogger routes store events to l.
func WithLogger(l *log.Logger) Option {
	return sqlite.WithLogger(l)
}

// WithClock sets the time source for generated dates.
func WithClock(now func() time.Time) Option {
	return sqlite.WithClock(now)
}

// NewBackend creates a SQLite store for config. The database is opened on
// first use.
//
// Example:
//
//	store := sqlite.NewBackend(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".plantcare-db",
//	})
//	defer store.Close()
//	if err := store.Initialize(ctx); err != nil { ... }
func NewBackend(config types.Config, opts ...Option) Backend {
	return sqlite.NewBackend(config, opts...)
}
