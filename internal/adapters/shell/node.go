package shell

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/mason/internal/core/ports"
)

const NodeID graft.ID = "adapter.spawner"

func init() {
	graft.Register(graft.Node[ports.Spawner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Spawner, error) {
			return New(), nil
		},
	})
}
