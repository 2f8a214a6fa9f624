// Package remote defines the sync target the store pushes to and restores
// from, plus the periodic auto-sync loop.
package remote

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// Syncer moves the local store to and from a remote copy.
type Syncer interface {
	// Upload pushes the local state to the remote.
	Upload(ctx context.Context) error
	// Download restores the local state from the remote.
	Download(ctx context.Context) error
}

// Noop is the default Syncer. It logs and does nothing.
type Noop struct {
	Logger *log.Logger
}

func (n Noop) Upload(context.Context) error {
	n.logf("sync upload skipped: no remote configured")
	return nil
}

func (n Noop) Download(context.Context) error {
	n.logf("sync download skipped: no remote configured")
	return nil
}

func (n Noop) logf(format string, args ...any) {
	if n.Logger != nil {
		n.Logger.Printf(format, args...)
	}
}

// Dir syncs to a directory of JSONL snapshots, such as a mounted share or
// a folder synced by another tool.
type Dir struct {
	Store  types.Snapshotter
	Path   string
	Logger *log.Logger
}

// NewDir returns a Dir syncer for store at path. A nil logger discards
// output.
func NewDir(store types.Snapshotter, path string, logger *log.Logger) *Dir {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Dir{Store: store, Path: path, Logger: logger}
}

// Upload exports every table to the directory.
func (d *Dir) Upload(ctx context.Context) error {
	if err := d.Store.Export(ctx, d.Path); err != nil {
		return fmt.Errorf("uploading to %s: %w", d.Path, err)
	}
	d.Logger.Printf("uploaded snapshot to %s", d.Path)
	return nil
}

// Download imports the directory's snapshot into the store.
func (d *Dir) Download(ctx context.Context) error {
	n, err := d.Store.Import(ctx, d.Path)
	if err != nil {
		return fmt.Errorf("downloading from %s: %w", d.Path, err)
	}
	d.Logger.Printf("restored %d records from %s", n, d.Path)
	return nil
}

// AutoSync calls s.Upload every interval until ctx is done. Upload errors
// are logged and the loop keeps going. It returns ctx.Err() on
// cancellation, or ErrInvalidInterval without starting if interval is not
// positive.
func AutoSync(ctx context.Context, s Syncer, interval time.Duration, logger *log.Logger) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", types.ErrInvalidInterval, interval)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Upload(ctx); err != nil {
				logger.Printf("auto sync: %v", err)
			}
		}
	}
}
