// Package pool provides named concurrency limiters. The reference
// backend runs commands one at a time, which makes acquisition there
// pure bookkeeping, but the contract binds concurrent backends: sets
// sharing a pool name never exceed the pool's declared depth.
package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

// Console is the implicit pool serializing commands that attach to the
// caller's terminal.
const Console = "console"

// Registry holds the declared pools. The empty pool name is unbounded;
// undeclared names act as depth-1 pools, so a named resource defaults
// to serial access.
type Registry struct {
	mu    sync.Mutex
	pools map[string]*limiter
}

type limiter struct {
	depth int
	sem   *semaphore.Weighted
}

// NewRegistry creates a Registry with the console pool declared at
// depth 1.
func NewRegistry() *Registry {
	r := &Registry{pools: make(map[string]*limiter)}
	r.pools[Console] = &limiter{depth: 1, sem: semaphore.NewWeighted(1)}
	return r
}

// Declare registers a named pool. Redeclaring with the same depth is
// idempotent; a different depth fails.
func (r *Registry) Declare(name string, depth int) error {
	if name == "" {
		return zerr.New("pool name must not be empty")
	}
	if depth < 1 {
		return zerr.With(zerr.With(zerr.New("pool depth must be at least 1"), "pool", name), "depth", depth)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.pools[name]; ok {
		if prev.depth != depth {
			return zerr.With(zerr.With(zerr.With(domain.ErrPoolConflict,
				"pool", name),
				"depth", prev.depth),
				"redeclared", depth)
		}
		return nil
	}

	r.pools[name] = &limiter{depth: depth, sem: semaphore.NewWeighted(int64(depth))}
	return nil
}

// Depth reports a pool's declared depth. Undeclared names report the
// implicit depth 1; the empty name reports 0 for unbounded.
func (r *Registry) Depth(name string) int {
	if name == "" {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pools[name]; ok {
		return p.depth
	}
	return 1
}

// Acquire takes a slot in the named pool, blocking until one frees up
// or ctx is done. The returned release function gives the slot back and
// tolerates being called more than once.
func (r *Registry) Acquire(ctx context.Context, name string) (func(), error) {
	if name == "" {
		return func() {}, nil
	}

	r.mu.Lock()
	p, ok := r.pools[name]
	if !ok {
		p = &limiter{depth: 1, sem: semaphore.NewWeighted(1)}
		r.pools[name] = p
	}
	r.mu.Unlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, zerr.Wrap(err, "pool acquisition canceled")
	}

	var once sync.Once
	return func() {
		once.Do(func() { p.sem.Release(1) })
	}, nil
}
