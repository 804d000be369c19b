package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"go.trai.ch/mason/internal/core/ports"
)

// NodeID is the unique identifier for the logger graft node.
const NodeID graft.ID = "adapter.logger"

// EnvDebug enables debug-level diagnostics. Tracing is off by default
// so stderr carries nothing but warnings and errors.
const EnvDebug = "MASON_DEBUG"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			l := New()
			switch os.Getenv(EnvDebug) {
			case "", "0", "false":
			default:
				l.SetVerbose(true)
			}
			return l, nil
		},
	})
}
