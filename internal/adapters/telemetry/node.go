package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"go.trai.ch/mason/internal/adapters/telemetry/progrock"
	"go.trai.ch/mason/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry graft node.
const NodeID graft.ID = "adapter.telemetry"

// EnvProgress enables the progrock progress tape. Recording is off by
// default so plain console output stays readable.
const EnvProgress = "MASON_PROGRESS"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			switch os.Getenv(EnvProgress) {
			case "", "0", "false":
				return NewNoOp(), nil
			default:
				return progrock.New(), nil
			}
		},
	})
}
