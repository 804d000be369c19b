package domain

import (
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrModuleExists is returned when a module name is declared twice.
	ErrModuleExists = zerr.New("module already exists")

	// ErrTargetExists is returned when a target name is declared twice
	// within the same module.
	ErrTargetExists = zerr.New("target already exists")

	// ErrOperatorExists is returned when an operator name is declared
	// twice under the same target.
	ErrOperatorExists = zerr.New("operator already exists")

	// ErrDuplicateDependency is returned when the same edge is declared
	// twice between two targets.
	ErrDuplicateDependency = zerr.New("dependency already exists")

	// ErrNoSuchModule is returned when a referenced module is unknown.
	ErrNoSuchModule = zerr.New("no such module")

	// ErrNoSuchTarget is returned when a target name resolves to nothing.
	ErrNoSuchTarget = zerr.New("no such target")

	// ErrAmbiguousTarget is returned when a bare target name matches
	// targets in more than one module.
	ErrAmbiguousTarget = zerr.New("ambiguous target name")

	// ErrDuplicateProducer is returned when a second build set declares
	// an output path that already has a producer.
	ErrDuplicateProducer = zerr.New("output already has a producer")

	// ErrBuildSetRegistered is returned when a build set is registered twice.
	ErrBuildSetRegistered = zerr.New("build set already registered")

	// ErrUnknownRole is returned when a command template references a
	// file role the build set does not declare.
	ErrUnknownRole = zerr.New("unknown file role")

	// ErrEmptyRole is returned when a single-file reference points at a
	// role with no files.
	ErrEmptyRole = zerr.New("file role is empty")

	// ErrCycleDetected is returned when build sets form a dependency
	// cycle through their produced files.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnknownBackend is returned when a backend name has no
	// registered implementation.
	ErrUnknownBackend = zerr.New("unknown backend")

	// ErrPoolConflict is returned when a pool is redeclared with a
	// different depth.
	ErrPoolConflict = zerr.New("pool depth conflict")
)

// SpawnFailureStatus is the exit status reported when a command could
// not be started at all (missing binary, permission denied).
const SpawnFailureStatus = 127

// CommandError reports a build command that exited with a non-zero
// status. It aborts the build; the build log is not advanced for the
// failing set, so the next run re-executes it.
type CommandError struct {
	// Label identifies the build set the command belongs to.
	Label string
	// Argv is the rendered command line.
	Argv []string
	// Status is the command's exit status (SpawnFailureStatus when the
	// process could not be started).
	Status int
	// Output holds captured combined output in buffered mode, nil when
	// the command ran with inherited stdio.
	Output []byte
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed with exit status %d: %s", e.Status, strings.Join(e.Argv, " "))
}

// ExitStatus maps an error to the process exit status: 0 for nil, the
// command's own status for CommandError, 1 otherwise.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Status
	}
	return 1
}
