// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/mason/internal/core/domain"
)

// BuildOptions is the options bag for Backend.Build.
type BuildOptions struct {
	// Verbose replays captured command output even on success.
	Verbose bool

	// Log is the per-variant build log the backend consults to skip
	// unchanged sets and advances after successful execution.
	Log BuildLog
}

// CleanOptions is the options bag for Backend.Clean.
type CleanOptions struct {
	// Recursive reports that the selection was extended over the
	// transitive producer closure.
	Recursive bool

	// Verbose echoes every removed path.
	Verbose bool

	// Log has its entries forgotten for removed outputs so a later
	// build does not mistake them for fresh.
	Log BuildLog
}

// ExportOptions is the options bag for Backend.Export.
type ExportOptions struct {
	Verbose bool
}

// Backend executes, cleans, and exports build sets. The engine core
// talks to backends only through this contract; the sequence passed to
// Build is already in topological order and the backend must preserve
// it. Non-zero command exits abort the build with a
// domain.CommandError; spawn failures surface as exit status 127
// through the same path.
//
//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Build executes the ordered build sets.
	Build(ctx context.Context, graph *domain.Graph, sets []*domain.BuildSet, opts BuildOptions) error

	// Clean removes the declared outputs of the given build sets.
	// Per-path removal failures are reported but never fail the call.
	Clean(ctx context.Context, graph *domain.Graph, sets []*domain.BuildSet, opts CleanOptions) error

	// Export hands the project to an external build system. The
	// reference backend has nothing to export and reports that.
	Export(ctx context.Context, graph *domain.Graph, opts ExportOptions) error
}
