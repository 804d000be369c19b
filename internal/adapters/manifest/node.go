package manifest

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/mason/internal/adapters/logger"
	"go.trai.ch/mason/internal/core/ports"
)

const NodeID graft.ID = "adapter.manifest"

func init() {
	graft.Register(graft.Node[ports.GraphLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.GraphLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
