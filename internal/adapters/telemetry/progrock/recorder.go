// Package progrock provides the progrock implementation of the
// telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"go.trai.ch/mason/internal/core/ports"
)

// Recorder implements ports.Telemetry on a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex named after the build set label.
func (r *Recorder) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	cfg := ports.VertexConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	rec := r.rec
	if cfg.Group != "" {
		rec = rec.WithGroup(cfg.Group)
	}

	v := rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
