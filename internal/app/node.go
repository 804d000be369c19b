package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/mason/internal/adapters/console"   //nolint:depguard // Wired in app layer
	"go.trai.ch/mason/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mason/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/mason/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/mason/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/mason/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			logger.NodeID,
			shell.NodeID,
			console.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.GraphLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			spawner, err := graft.Dep[ports.Spawner](ctx)
			if err != nil {
				return nil, err
			}

			reporter, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, log, spawner, reporter, tel), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}
