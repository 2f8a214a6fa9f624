// Package sqlite implements the on-device plant store on an embedded SQLite
// database: schema creation, per-entity CRUD, search and pagination, and
// JSONL backup of every table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend owns the process-wide database handle. The handle is opened on
// first use and kept until Close. It is limited to one connection, so the
// engine executes statements one at a time.
type Backend struct {
	mu     sync.Mutex
	config types.Config
	db     *sql.DB

	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for store events and degraded reads.
func WithLogger(l *log.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock sets the time source for generated dates.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBackend creates a backend for config. Nothing is opened until the first
// operation or an explicit Initialize.
func NewBackend(config types.Config, opts ...Option) *Backend {
	b := &Backend{
		config: config,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
		newID:  generateID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration the backend was created with.
func (b *Backend) Config() types.Config {
	return b.config
}

// handle returns the shared database handle, opening it on first use.
// Failures wrap ErrStorageUnavailable.
func (b *Backend) handle(ctx context.Context) (*sql.DB, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return b.db, nil
	}

	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
	}

	if b.config.DataDir != "" {
		if err := os.MkdirAll(b.config.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating data dir: %w", types.ErrStorageUnavailable, err)
		}
	}

	path := b.config.DatabasePath()
	b.logger.Printf("opening database %s", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", types.ErrStorageUnavailable, path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connecting to %s: %w", types.ErrStorageUnavailable, path, err)
	}

	b.db = db
	return db, nil
}

// Close releases the database handle. Close is idempotent; the next
// operation reopens the database.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	b.logger.Printf("closing database")
	err := b.db.Close()
	b.db = nil
	return err
}

// readFailed logs a failed read and tags it as degraded.
func (b *Backend) readFailed(op string, err error) error {
	b.logger.Printf("%s failed: %v", op, err)
	return fmt.Errorf("%s: %w: %w", op, types.ErrReadDegraded, err)
}

// writeFailed logs a failed write and tags it for the caller.
func (b *Backend) writeFailed(op string, err error) error {
	b.logger.Printf("%s failed: %v", op, err)
	return fmt.Errorf("%s: %w: %w", op, types.ErrWriteFailed, err)
}

// timestamp returns the current time in the stored ISO-8601 form.
func (b *Backend) timestamp() string {
	return types.Timestamp(b.now())
}

// generateID returns a time-ordered UUID v7 for a new row.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fall back to a random UUID if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}
