package progrock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/mason/internal/adapters/telemetry/progrock"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecorder_Lifecycle(t *testing.T) {
	recorder := progrock.New()

	ctx, vertex := recorder.Record(t.Context(), "cc main.c", ports.WithGroup("hello@compile"))

	if _, ok := ports.VertexFromContext(ctx); !ok {
		t.Error("recorded vertex should be attached to the context")
	}

	if _, err := vertex.Stdout().Write([]byte("standard output\n")); err != nil {
		t.Errorf("failed to write to stdout: %v", err)
	}
	if _, err := vertex.Stderr().Write([]byte("error output\n")); err != nil {
		t.Errorf("failed to write to stderr: %v", err)
	}

	vertex.Log(domain.LogLevelDebug, "debug msg")
	vertex.Complete(nil)

	if err := recorder.Close(); err != nil {
		t.Errorf("failed to close recorder: %v", err)
	}
}

func TestRecorder_CachedVertex(t *testing.T) {
	recorder := progrock.New()

	_, vertex := recorder.Record(t.Context(), "generate version.h")
	vertex.Cached()
	vertex.Complete(nil)

	assert.NoError(t, recorder.Close())
}
