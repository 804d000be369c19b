// Package telemetry selects the telemetry implementation used to
// record build set execution.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// NoOp is a telemetry implementation that records nothing.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a vertex that swallows everything.
func (t *NoOp) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &NoOpVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (t *NoOp) Close() error {
	return nil
}

// NoOpVertex is a vertex that discards all activity.
type NoOpVertex struct{}

// Stdout returns a discarding writer.
func (v *NoOpVertex) Stdout() io.Writer {
	return io.Discard
}

// Stderr returns a discarding writer.
func (v *NoOpVertex) Stderr() io.Writer {
	return io.Discard
}

// Log does nothing.
func (v *NoOpVertex) Log(_ domain.LogLevel, _ string) {}

// Complete does nothing.
func (v *NoOpVertex) Complete(_ error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
