// Package cache keeps an in-memory mirror of the plants table for readers
// that render the whole collection.
//
// The mirror is only replaced by Refresh. Mutations go straight to the
// store; callers refresh afterward to bring the mirror back in line.
package cache

import (
	"context"
	"io"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// refreshKey is the single-flight key shared by every refresh.
const refreshKey = "plants"

// Source is the part of the store the cache reads from.
type Source interface {
	Initialize(ctx context.Context) error
	GetPlants(ctx context.Context) ([]types.Plant, error)
}

// State is a point-in-time view of the cache.
type State struct {
	Ready   bool
	Loading bool
	Plants  []types.Plant
	Err     string
}

// PlantCache mirrors the plants table. Refreshes are coalesced: while one
// read is in flight, further callers wait for and share its result.
type PlantCache struct {
	source Source
	logger *log.Logger
	group  singleflight.Group

	mu    sync.RWMutex
	state State

	subMu sync.Mutex
	subs  map[chan State]struct{}
}

// New creates an uninitialized cache over source. A nil logger discards
// output.
func New(source Source, logger *log.Logger) *PlantCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &PlantCache{
		source: source,
		logger: logger,
		state:  State{Plants: []types.Plant{}},
		subs:   make(map[chan State]struct{}),
	}
}

// Initialize prepares the schema and loads the first mirror. If the schema
// cannot be prepared the cache stays not ready and the error is returned.
// A failed first read leaves the cache ready with an empty mirror and the
// reason in State.Err.
func (c *PlantCache) Initialize(ctx context.Context) error {
	c.update(func(s *State) {
		s.Loading = true
		s.Err = ""
	})

	if err := c.source.Initialize(ctx); err != nil {
		c.logger.Printf("initializing plant cache: %v", err)
		c.update(func(s *State) {
			s.Ready = false
			s.Loading = false
			s.Err = err.Error()
		})
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		c.logger.Printf("first plant refresh degraded: %v", err)
	}
	c.update(func(s *State) {
		s.Ready = true
		s.Loading = false
	})
	return nil
}

// Refresh re-reads every plant and replaces the mirror in one step. Records
// without an id are dropped. On a failed read the mirror is cleared, the
// reason is kept in State.Err, and the error is returned.
//
// Concurrent calls share one read. A caller whose ctx ends stops waiting,
// but the shared read still completes for the others.
func (c *PlantCache) Refresh(ctx context.Context) error {
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		return nil, c.load(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// load runs one read. It is only called through group, so at most one load
// is in flight and the last one to finish is also the most recent.
func (c *PlantCache) load(ctx context.Context) error {
	c.update(func(s *State) {
		s.Loading = true
		s.Err = ""
	})

	plants, err := c.source.GetPlants(ctx)

	c.update(func(s *State) {
		s.Loading = false
		if err != nil {
			s.Plants = []types.Plant{}
			s.Err = err.Error()
			return
		}
		s.Plants = withIDs(plants)
	})

	if err != nil {
		c.logger.Printf("refreshing plants: %v", err)
	}
	return err
}

// Snapshot returns a copy of the current state. The returned slice is not
// shared with the cache.
func (c *PlantCache) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLocked()
}

// Plants returns a copy of the mirrored plants.
func (c *PlantCache) Plants() []types.Plant {
	return c.Snapshot().Plants
}

// Subscribe returns a channel that receives the state after every change,
// and a function that cancels the subscription and closes the channel.
// A slow subscriber only sees the latest state.
func (c *PlantCache) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	c.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, ch)
			close(ch)
			c.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (c *PlantCache) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snap := c.copyLocked()
	c.mu.Unlock()
	c.publish(snap)
}

func (c *PlantCache) publish(s State) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- s:
			continue
		default:
		}
		// Replace the pending state with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func (c *PlantCache) copyLocked() State {
	s := c.state
	s.Plants = make([]types.Plant, len(c.state.Plants))
	for i, p := range c.state.Plants {
		s.Plants[i] = clonePlant(p)
	}
	return s
}

func clonePlant(p types.Plant) types.Plant {
	if p.LastWateredDate != nil {
		p.LastWateredDate = types.Ptr(*p.LastWateredDate)
	}
	if p.ImageThumb != nil {
		p.ImageThumb = types.Ptr(*p.ImageThumb)
	}
	return p
}

// withIDs returns the plants that carry an id.
func withIDs(plants []types.Plant) []types.Plant {
	out := make([]types.Plant, 0, len(plants))
	for _, p := range plants {
		if p.ID == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
