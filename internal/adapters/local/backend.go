// Package local implements the reference backend. It executes build
// sets sequentially as local processes, consulting the build log and
// file modification times to skip work that is already up to date.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/pool"
	"go.trai.ch/mason/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Name is the backend's registry name.
const Name = "local"

// Backend executes build sets as operating system processes.
type Backend struct {
	spawner   ports.Spawner
	reporter  ports.Reporter
	telemetry ports.Telemetry
}

var _ ports.Backend = (*Backend)(nil)

// New creates the reference backend.
func New(spawner ports.Spawner, reporter ports.Reporter, telemetry ports.Telemetry) *Backend {
	return &Backend{spawner: spawner, reporter: reporter, telemetry: telemetry}
}

// Build executes the ordered build sets one at a time. A non-zero
// command exit aborts the run with a domain.CommandError and leaves the
// build log untouched for the failing set.
func (b *Backend) Build(ctx context.Context, graph *domain.Graph, sets []*domain.BuildSet, opts ports.BuildOptions) error {
	pools := pool.NewRegistry()
	for _, p := range graph.Pools() {
		if err := pools.Declare(p.Name, p.Depth); err != nil {
			return err
		}
	}

	for _, bs := range sets {
		if err := ctx.Err(); err != nil {
			return zerr.Wrap(err, "build interrupted")
		}
		if bs.Operator == nil {
			continue
		}
		if err := b.buildOne(ctx, bs, pools, opts); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) buildOne(ctx context.Context, bs *domain.BuildSet, pools *pool.Registry, opts ports.BuildOptions) error {
	fingerprint, err := bs.Fingerprint()
	if err != nil {
		return zerr.Wrap(err, "failed to fingerprint build set")
	}

	ctx, vtx := b.telemetry.Record(ctx, bs.RenderDescription(),
		ports.WithGroup(bs.Operator.Target.Module.Name))

	if upToDate(bs, fingerprint, opts.Log) {
		b.reporter.Skip(bs.Label())
		vtx.Cached()
		return nil
	}

	argvs, err := domain.RenderCommands(bs.Operator.Commands, bs)
	if err != nil {
		vtx.Complete(err)
		return zerr.Wrap(err, "failed to render commands")
	}

	for _, out := range bs.OutputFiles() {
		if err := os.MkdirAll(filepath.Dir(out), domain.DirPerm); err != nil {
			vtx.Complete(err)
			return zerr.Wrap(err, "failed to create output directory")
		}
	}

	op := bs.Operator
	poolName := op.EffectivePool()
	if op.EffectiveSyncIO() {
		poolName = pool.Console
	}
	release, err := pools.Acquire(ctx, poolName)
	if err != nil {
		vtx.Complete(err)
		return err
	}
	defer release()

	var captured []byte
	for _, argv := range argvs {
		b.reporter.Command(argv)

		res, err := b.spawner.Spawn(ctx, argv, ports.SpawnOptions{
			Dir:    op.Dir,
			Env:    op.Env,
			SyncIO: op.EffectiveSyncIO(),
		})
		if err != nil {
			vtx.Complete(err)
			return zerr.With(zerr.Wrap(err, "build interrupted"), "build_set", bs.Label())
		}

		_, _ = vtx.Stdout().Write(res.Output)
		captured = append(captured, res.Output...)

		if res.Status != 0 {
			b.reporter.Replay(bs.Label(), captured)
			cmdErr := &domain.CommandError{
				Label:  bs.Label(),
				Argv:   argv,
				Status: res.Status,
				Output: captured,
			}
			vtx.Complete(cmdErr)
			return cmdErr
		}
	}

	opts.Log.Record(fingerprint, bs.OutputFiles())

	if opts.Verbose && len(captured) > 0 {
		b.reporter.Replay(bs.Label(), captured)
	}
	vtx.Complete(nil)
	return nil
}

// upToDate reports whether every output carries the current fingerprint
// in the build log and the newest input is strictly older than the
// oldest output. Sets without outputs always run.
func upToDate(bs *domain.BuildSet, fingerprint string, log ports.BuildLog) bool {
	outputs := bs.OutputFiles()
	if len(outputs) == 0 {
		return false
	}
	for _, out := range outputs {
		h, ok := log.Hash(out)
		if !ok || h != fingerprint {
			return false
		}
	}

	var newestInput time.Time
	for _, in := range bs.InputFiles() {
		info, err := os.Stat(in)
		if err != nil {
			return false
		}
		if mt := info.ModTime(); mt.After(newestInput) {
			newestInput = mt
		}
	}
	for _, out := range outputs {
		info, err := os.Stat(out)
		if err != nil {
			return false
		}
		if !newestInput.Before(info.ModTime()) {
			return false
		}
	}
	return true
}

// Clean removes the declared outputs of the given build sets. With
// Recursive set the selection is closed over the transitive producers
// of the sets' inputs first. Removal failures are reported, never fatal.
func (b *Backend) Clean(ctx context.Context, graph *domain.Graph, sets []*domain.BuildSet, opts ports.CleanOptions) error {
	if opts.Recursive {
		index, err := scheduler.NewIndex(graph.BuildSets())
		if err != nil {
			return err
		}
		for frontier := scheduler.Producers(index, sets); len(frontier) > 0; frontier = scheduler.Producers(index, sets) {
			sets = append(sets, frontier...)
		}
	}

	var removed []string
	for _, bs := range sets {
		if err := ctx.Err(); err != nil {
			break
		}
		for _, out := range bs.OutputFiles() {
			info, err := os.Lstat(out)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				b.reporter.RemoveFailed(out, err)
				continue
			}
			if info.IsDir() {
				err = os.RemoveAll(out)
			} else {
				err = os.Remove(out)
			}
			if err != nil {
				b.reporter.RemoveFailed(out, err)
				continue
			}
			removed = append(removed, out)
			if opts.Verbose {
				b.reporter.Remove(out)
			}
		}
	}

	opts.Log.Forget(removed)

	if len(removed) == 0 {
		b.reporter.Note("nothing to clean")
	} else {
		b.reporter.Note(fmt.Sprintf("removed %d outputs", len(removed)))
	}
	return ctx.Err()
}

// Export reports that the reference backend executes directly and has
// no project files to emit.
func (b *Backend) Export(_ context.Context, _ *domain.Graph, _ ports.ExportOptions) error {
	b.reporter.Note("the local backend executes builds directly; nothing to export")
	return nil
}
