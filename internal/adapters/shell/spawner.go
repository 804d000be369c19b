// Package shell spawns build commands as operating system processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// Spawner implements ports.Spawner using os/exec.
//
// A process that ran and exited non-zero is not an error here: the
// exit status comes back as data and the backend decides what it
// means. The returned error is reserved for commands that cannot be
// attempted at all (empty argv) and for context cancellation.
type Spawner struct{}

var _ ports.Spawner = (*Spawner)(nil)

// New creates a new Spawner.
func New() *Spawner {
	return &Spawner{}
}

// Spawn runs argv to completion. The overlay in opts.Env shadows the
// inherited environment for this process only; SyncIO attaches the
// caller's terminal instead of capturing output.
func (s *Spawner) Spawn(ctx context.Context, argv []string, opts ports.SpawnOptions) (ports.SpawnResult, error) {
	if len(argv) == 0 {
		return ports.SpawnResult{}, zerr.New("cannot spawn an empty command")
	}

	//nolint:gosec // argv comes from the project manifest
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = mergeEnvironment(os.Environ(), opts.Env)

	var buf bytes.Buffer
	if opts.SyncIO {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	if err == nil {
		return ports.SpawnResult{Status: 0, Output: buf.Bytes()}, nil
	}

	if ctx.Err() != nil {
		return ports.SpawnResult{}, zerr.Wrap(ctx.Err(), "command canceled")
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ports.SpawnResult{Status: exitErr.ExitCode(), Output: buf.Bytes()}, nil
	}

	// The process never started: missing binary, not executable, bad
	// working directory. Reported as exit status 127 like a shell.
	output := buf.Bytes()
	output = append(output, []byte(err.Error()+"\n")...)
	return ports.SpawnResult{Status: domain.SpawnFailureStatus, Output: output}, nil
}

// mergeEnvironment applies overlay on top of base without mutating the
// process's own environment.
func mergeEnvironment(base []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return base
	}

	envMap := make(map[string]string, len(base)+len(overlay))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overlay {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}
