package ports

import (
	"context"
	"io"

	"go.trai.ch/mason/internal/core/domain"
)

// Telemetry records the lifecycle of build set executions as vertices.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record starts recording a new vertex.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer capturing the unit's standard output.
	Stdout() io.Writer

	// Stderr returns a writer capturing the unit's error output.
	Stderr() io.Writer

	// Log records a structured message associated with the vertex.
	Log(level domain.LogLevel, msg string)

	// Complete marks the vertex as finished, successfully or with err.
	Complete(err error)

	// Cached marks the vertex as skipped by the content cache.
	Cached()
}

// VertexConfig holds configuration for a starting vertex.
type VertexConfig struct {
	// Group nests the vertex under a named group when set.
	Group string
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

// WithGroup nests the vertex under the named group.
func WithGroup(name string) VertexOption {
	return func(c *VertexConfig) {
		c.Group = name
	}
}

type vertexContextKey struct{}

// ContextWithVertex attaches a vertex to the context.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexContextKey{}, v)
}

// VertexFromContext returns the vertex attached to the context, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexContextKey{}).(Vertex)
	return v, ok
}
