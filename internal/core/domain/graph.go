// Package domain contains the core models of the build graph: modules,
// targets, dependency edges, operators, and the build sets they compile
// into.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/mason/internal/core/props"
	"go.trai.ch/zerr"
)

// Graph is the build session master. It owns modules and targets, the
// property registries they validate against, pool declarations, and the
// registered build sets together with the single-producer index mapping
// each declared output path to the one build set producing it.
type Graph struct {
	targetProps *props.Registry
	edgeProps   *props.Registry

	modules     map[string]*Module
	moduleOrder []*Module
	targets     map[string]*Target

	buildSets []*BuildSet
	producers map[string]*BuildSet

	pools map[string]int
}

// NewGraph creates an empty Graph with the builtin edge properties
// registered.
func NewGraph() *Graph {
	g := &Graph{
		targetProps: props.NewRegistry(),
		edgeProps:   props.NewRegistry(),
		modules:     make(map[string]*Module),
		targets:     make(map[string]*Target),
		producers:   make(map[string]*BuildSet),
		pools:       make(map[string]int),
	}
	// Fresh registry, constant key: cannot fail.
	_ = g.edgeProps.Register(props.Definition{
		Key:     PropDepPropagate,
		Kind:    props.KindBool,
		Default: true,
	})
	return g
}

// TargetProperties returns the registry target stores validate against.
func (g *Graph) TargetProperties() *props.Registry {
	return g.targetProps
}

// EdgeProperties returns the registry dependency-edge stores validate
// against.
func (g *Graph) EdgeProperties() *props.Registry {
	return g.edgeProps
}

// AddModule declares a module.
func (g *Graph) AddModule(name, version, directory string) (*Module, error) {
	if _, exists := g.modules[name]; exists {
		return nil, zerr.With(ErrModuleExists, "module", name)
	}
	m := &Module{Name: name, Version: version, Directory: directory}
	g.modules[name] = m
	g.moduleOrder = append(g.moduleOrder, m)
	return m, nil
}

// Module looks up a module by name.
func (g *Graph) Module(name string) (*Module, bool) {
	m, ok := g.modules[name]
	return m, ok
}

// Modules returns all modules in declaration order.
func (g *Graph) Modules() []*Module {
	return g.moduleOrder
}

// AddTarget declares a target within a module.
func (g *Graph) AddTarget(m *Module, name string) (*Target, error) {
	t := &Target{Module: m, Name: name, Props: props.NewStore(g.targetProps)}
	if _, exists := g.targets[t.ID()]; exists {
		return nil, zerr.With(ErrTargetExists, "target", t.ID())
	}
	g.targets[t.ID()] = t
	m.targets = append(m.targets, t)
	return t, nil
}

// Target looks up a target by its qualified module@name ID.
func (g *Graph) Target(id string) (*Target, bool) {
	t, ok := g.targets[id]
	return t, ok
}

// AddDependency declares an edge from one target to another. Duplicate
// edges between the same pair fail.
func (g *Graph) AddDependency(from, to *Target) (*Dependency, error) {
	for _, dep := range from.deps {
		if dep.Target == to {
			return nil, zerr.With(zerr.With(ErrDuplicateDependency, "from", from.ID()), "to", to.ID())
		}
	}
	dep := &Dependency{Target: to, Props: props.NewStore(g.edgeProps)}
	from.deps = append(from.deps, dep)
	return dep, nil
}

// AddModuleDependency declares edges from a target to every non-explicit
// target of a module, skipping the target itself.
func (g *Graph) AddModuleDependency(from *Target, m *Module) ([]*Dependency, error) {
	var out []*Dependency
	for _, to := range m.DefaultTargets() {
		if to == from {
			continue
		}
		dep, err := g.AddDependency(from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, nil
}

// RegisterBuildSet makes a build set schedulable. Registration enforces
// the single-producer invariant: every declared output path must have
// exactly one producer across the whole graph.
func (g *Graph) RegisterBuildSet(bs *BuildSet) error {
	if bs.registered {
		return zerr.With(ErrBuildSetRegistered, "build_set", bs.Label())
	}
	for _, out := range bs.OutputFiles() {
		if prev, taken := g.producers[out]; taken {
			return zerr.With(zerr.With(zerr.With(ErrDuplicateProducer,
				"output", out),
				"producer", prev.Label()),
				"duplicate", bs.Label())
		}
	}
	for _, out := range bs.OutputFiles() {
		g.producers[out] = bs
	}
	bs.registered = true
	g.buildSets = append(g.buildSets, bs)
	return nil
}

// BuildSets returns all registered build sets in registration order.
func (g *Graph) BuildSets() []*BuildSet {
	return g.buildSets
}

// Producer returns the build set producing a path, if any.
func (g *Graph) Producer(path string) (*BuildSet, bool) {
	bs, ok := g.producers[path]
	return bs, ok
}

// DeclarePool records a named concurrency limit. Redeclaring with the
// same depth is idempotent; a different depth fails.
func (g *Graph) DeclarePool(name string, depth int) error {
	if prev, ok := g.pools[name]; ok && prev != depth {
		return zerr.With(zerr.With(zerr.With(ErrPoolConflict, "pool", name), "depth", prev), "redeclared", depth)
	}
	g.pools[name] = depth
	return nil
}

// Pool describes a declared concurrency limit.
type Pool struct {
	Name  string
	Depth int
}

// Pools returns the declared pools sorted by name.
func (g *Graph) Pools() []Pool {
	out := make([]Pool, 0, len(g.pools))
	for name, depth := range g.pools {
		out = append(out, Pool{Name: name, Depth: depth})
	}
	slices.SortFunc(out, func(a, b Pool) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// ResolveTargets maps CLI target names to targets. Names containing @
// must match exactly; bare names must be unique across modules.
func (g *Graph) ResolveTargets(names []string) ([]*Target, error) {
	out := make([]*Target, 0, len(names))
	for _, name := range names {
		if strings.Contains(name, "@") {
			t, ok := g.targets[name]
			if !ok {
				return nil, zerr.With(ErrNoSuchTarget, "target", name)
			}
			out = append(out, t)
			continue
		}

		var matches []*Target
		for _, m := range g.moduleOrder {
			for _, t := range m.targets {
				if t.Name == name {
					matches = append(matches, t)
				}
			}
		}
		switch len(matches) {
		case 0:
			return nil, zerr.With(ErrNoSuchTarget, "target", name)
		case 1:
			out = append(out, matches[0])
		default:
			ids := make([]string, len(matches))
			for i, t := range matches {
				ids[i] = t.ID()
			}
			return nil, zerr.With(zerr.With(ErrAmbiguousTarget, "target", name),
				"candidates", strings.Join(ids, ", "))
		}
	}
	return out, nil
}

// SelectBuildSets picks the build sets a build or clean invocation works
// on. With no names every non-explicit operator set is selected;
// otherwise the sets of the named targets (explicit ones included, the
// user asked for them). Either way the selection closes over producers:
// a set whose output feeds a selected set is pulled in, placeholders
// included. The result preserves registration order.
func (g *Graph) SelectBuildSets(names []string) ([]*BuildSet, error) {
	selected := make(map[*BuildSet]bool)
	var queue []*BuildSet

	mark := func(bs *BuildSet) {
		if !selected[bs] {
			selected[bs] = true
			queue = append(queue, bs)
		}
	}

	if len(names) == 0 {
		for _, bs := range g.buildSets {
			if bs.Operator != nil && !bs.Operator.EffectiveExplicit() {
				mark(bs)
			}
		}
	} else {
		targets, err := g.ResolveTargets(names)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			for _, op := range t.operators {
				for _, bs := range op.buildSets {
					if bs.registered {
						mark(bs)
					}
				}
			}
		}
	}

	for len(queue) > 0 {
		bs := queue[0]
		queue = queue[1:]
		for _, in := range bs.InputFiles() {
			if p, ok := g.producers[in]; ok && p != bs {
				mark(p)
			}
		}
	}

	out := make([]*BuildSet, 0, len(selected))
	for _, bs := range g.buildSets {
		if selected[bs] {
			out = append(out, bs)
		}
	}
	return out, nil
}

// CleanBuildSets picks the sets whose outputs a clean invocation works
// on: every registered set with no names, otherwise the registered sets
// of the named targets. Unlike SelectBuildSets no producer closure is
// applied; recursive clean extends the selection itself.
func (g *Graph) CleanBuildSets(names []string) ([]*BuildSet, error) {
	if len(names) == 0 {
		return g.buildSets, nil
	}

	targets, err := g.ResolveTargets(names)
	if err != nil {
		return nil, err
	}
	var out []*BuildSet
	for _, t := range targets {
		for _, op := range t.operators {
			for _, bs := range op.buildSets {
				if bs.registered {
					out = append(out, bs)
				}
			}
		}
	}
	return out, nil
}
