// Package app implements the application layer for mason: it loads the
// project graph, selects and orders build sets, owns the lifetime of
// the persistent stores, and hands the work to a backend.
package app

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"go.trai.ch/mason/internal/adapters/cache"
	"go.trai.ch/mason/internal/adapters/local"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader   ports.GraphLoader
	logger   ports.Logger
	backends map[string]ports.Backend
}

// New creates a new App instance with the reference backend registered.
func New(
	loader ports.GraphLoader,
	log ports.Logger,
	spawner ports.Spawner,
	reporter ports.Reporter,
	telemetry ports.Telemetry,
) *App {
	return &App{
		loader: loader,
		logger: log,
		backends: map[string]ports.Backend{
			local.Name: local.New(spawner, reporter, telemetry),
		},
	}
}

// WithBackend registers or replaces a backend under name. This is
// primarily used for testing.
func (a *App) WithBackend(name string, b ports.Backend) *App {
	a.backends[name] = b
	return a
}

// Options configures one invocation.
type Options struct {
	// Manifest is the path to the project description file.
	Manifest string

	// Layout locates the build root, variant, and persisted state.
	Layout domain.Layout

	// Backend names the backend implementation to use.
	Backend string

	// Targets restricts the invocation to the named targets. Empty
	// selects the default set.
	Targets []string

	// Verbose replays command output on success and echoes removals.
	Verbose bool

	// Recursive extends a clean over the transitive producer closure.
	Recursive bool
}

// Build loads the project, orders the selected build sets, and executes
// them on the chosen backend. The persistent stores are saved on every
// return path.
func (a *App) Build(ctx context.Context, opts Options) (retErr error) {
	backend, err := a.backend(opts.Backend)
	if err != nil {
		return err
	}

	graph, err := a.loader.Load(opts.Manifest, opts.Layout)
	if err != nil {
		return err
	}

	sets, err := graph.SelectBuildSets(opts.Targets)
	if err != nil {
		return err
	}

	ordered, err := scheduler.Order(sets)
	if err != nil {
		return err
	}
	a.logger.Debug(fmt.Sprintf("ordered %d build sets", len(ordered)))

	stores := cache.OpenStores(opts.Layout, a.logger)
	defer func() {
		retErr = a.saveStores(stores, retErr)
	}()
	recordRun(stores, opts)

	return backend.Build(ctx, graph, ordered, ports.BuildOptions{
		Verbose: opts.Verbose,
		Log:     stores.Log,
	})
}

// Clean removes the outputs of the selected build sets and forgets
// their build log entries.
func (a *App) Clean(ctx context.Context, opts Options) (retErr error) {
	backend, err := a.backend(opts.Backend)
	if err != nil {
		return err
	}

	graph, err := a.loader.Load(opts.Manifest, opts.Layout)
	if err != nil {
		return err
	}

	sets, err := graph.CleanBuildSets(opts.Targets)
	if err != nil {
		return err
	}

	stores := cache.OpenStores(opts.Layout, a.logger)
	defer func() {
		retErr = a.saveStores(stores, retErr)
	}()

	return backend.Clean(ctx, graph, sets, ports.CleanOptions{
		Recursive: opts.Recursive,
		Verbose:   opts.Verbose,
		Log:       stores.Log,
	})
}

// Export hands the loaded project to the chosen backend's exporter.
func (a *App) Export(ctx context.Context, opts Options) error {
	backend, err := a.backend(opts.Backend)
	if err != nil {
		return err
	}

	graph, err := a.loader.Load(opts.Manifest, opts.Layout)
	if err != nil {
		return err
	}

	return backend.Export(ctx, graph, ports.ExportOptions{Verbose: opts.Verbose})
}

func (a *App) backend(name string) (ports.Backend, error) {
	if b, ok := a.backends[name]; ok {
		return b, nil
	}
	known := make([]string, 0, len(a.backends))
	for n := range a.backends {
		known = append(known, n)
	}
	sort.Strings(known)
	return nil, zerr.With(zerr.With(domain.ErrUnknownBackend, "backend", name),
		"known", strings.Join(known, ", "))
}

// saveStores persists the stores and resolves the save error against
// the primary one: a failed run keeps its own error, a clean run
// surfaces the save failure.
func (a *App) saveStores(stores *cache.Stores, primary error) error {
	err := stores.Save()
	if err == nil {
		return primary
	}
	err = zerr.Wrap(err, "failed to persist engine state")
	if primary != nil {
		a.logger.Error(err)
		return primary
	}
	return err
}

const (
	runCountKey    = "runs"
	lastTargetsKey = "last_targets"
	variantsKey    = "variants"
)

// recordRun notes invocation metadata: a run counter and the last
// selected targets in the variant store, and the set of variants ever
// built in the shared store.
func recordRun(stores *cache.Stores, opts Options) {
	stores.Variant.Set(runCountKey, storedInt(stores.Variant, runCountKey)+1)
	stores.Variant.Set(lastTargetsKey, opts.Targets)

	variants := storedStrings(stores.Shared, variantsKey)
	if !slices.Contains(variants, opts.Layout.Variant) {
		stores.Shared.Set(variantsKey, append(variants, opts.Layout.Variant))
	}
}

// storedInt reads a counter that may have round-tripped through JSON
// as a float64.
func storedInt(s *cache.Store, key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func storedStrings(s *cache.Store, key string) []string {
	v, _ := s.Get(key)
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, it := range list {
			if str, ok := it.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Components contains the initialized application components handed to
// the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}
