package ports

import "context"

// SpawnOptions configures one process invocation.
type SpawnOptions struct {
	// Dir is the working directory; empty inherits the caller's.
	Dir string

	// Env is the environment overlay merged over the engine's own
	// environment for this process only. The engine's environment is
	// never mutated.
	Env map[string]string

	// SyncIO attaches the process directly to the caller's stdio
	// instead of capturing output.
	SyncIO bool
}

// SpawnResult reports a finished process.
type SpawnResult struct {
	// Status is the exit status; domain.SpawnFailureStatus when the
	// process could not be started at all.
	Status int

	// Output is the captured combined output. Nil in SyncIO mode; in
	// spawn-failure cases it carries the failure reason.
	Output []byte
}

// Spawner runs a single command line. Process-level failure is data,
// not error: a non-zero exit or an unstartable binary comes back in
// SpawnResult. The error return is reserved for misuse (empty argv)
// and context cancellation.
//
//go:generate go run go.uber.org/mock/mockgen -source=spawner.go -destination=mocks/mock_spawner.go -package=mocks
type Spawner interface {
	Spawn(ctx context.Context, argv []string, opts SpawnOptions) (SpawnResult, error)
}
