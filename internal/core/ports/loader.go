package ports

import "go.trai.ch/mason/internal/core/domain"

// GraphLoader reads a project description and compiles it into a build
// graph.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type GraphLoader interface {
	// Load parses the manifest at path and returns the populated graph.
	// The layout provides the conventional output locations manifests
	// resolve relative output paths against.
	Load(path string, layout domain.Layout) (*domain.Graph, error)
}
