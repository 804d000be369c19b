package domain

import (
	"fmt"

	"go.trai.ch/mason/internal/core/props"
	"go.trai.ch/zerr"
)

// PropDepPropagate is the builtin dependency-edge property controlling
// whether an edge is visible past direct dependents. Registered by
// NewGraph on the edge registry.
const PropDepPropagate = "dep.propagate"

// Target is a named node in the build graph, scoped to a module. It
// carries properties, dependency edges, and the operators that generate
// its build sets.
type Target struct {
	Module *Module
	Name   string

	// Explicit excludes the target from "build everything" and from
	// module-level dependency expansion unless named directly or pulled
	// in transitively.
	Explicit bool

	// SyncIO attaches commands directly to the caller's stdio instead
	// of buffering their output.
	SyncIO bool

	// Pool names a concurrency-limiting resource for the target's
	// commands. Empty means unbounded.
	Pool string

	// Props holds the target's property values.
	Props *props.Store

	deps      []*Dependency
	operators []*Operator
}

// ID returns the qualified target name in module@name form.
func (t *Target) ID() string {
	return t.Module.Name + "@" + t.Name
}

// Dependencies returns the direct dependency edges in declaration order.
func (t *Target) Dependencies() []*Dependency {
	return t.deps
}

// Operators returns the target's operators in declaration order.
func (t *Target) Operators() []*Operator {
	return t.operators
}

// NewOperator attaches an operator to the target. An empty name is
// generated as op#<n>; duplicate names fail.
func (t *Target) NewOperator(name string, commands [][]Token) (*Operator, error) {
	if name == "" {
		name = fmt.Sprintf("op#%d", len(t.operators)+1)
	}
	for _, op := range t.operators {
		if op.Name == name {
			return nil, zerr.With(zerr.With(ErrOperatorExists, "target", t.ID()), "operator", name)
		}
	}
	op := &Operator{Name: name, Target: t, Commands: commands}
	t.operators = append(t.operators, op)
	return op, nil
}

// TransitiveDependencies walks the dependency edges depth-first in
// declaration order and returns each reachable dependency once. Edges
// with dep.propagate=false are yielded to the direct dependent only;
// their subtrees are still walked. The walk is cycle-safe.
func (t *Target) TransitiveDependencies() []*Dependency {
	var out []*Dependency
	visited := make(map[*Target]bool)
	emitted := make(map[*Target]bool)

	var walk func(cur *Target, direct bool)
	walk = func(cur *Target, direct bool) {
		for _, dep := range cur.deps {
			if (direct || dep.Propagates()) && !emitted[dep.Target] {
				emitted[dep.Target] = true
				out = append(out, dep)
			}
			if !visited[dep.Target] {
				visited[dep.Target] = true
				walk(dep.Target, false)
			}
		}
	}
	walk(t, true)
	return out
}

// Inherited resolves the effective value of an inheritable property on
// this target, merging the target's own value with the ordered
// contributions of its transitive dependencies. A dependency contributes
// only when the definition is exported or the dependency lives in the
// same module. Non-inheritable or unregistered keys fall back to a plain
// Get.
func (t *Target) Inherited(key string) (any, error) {
	def, ok := t.Props.Definition(key)
	if !ok || !def.Inherit {
		return t.Props.Get(key)
	}

	own, ownSet := t.Props.Value(key)
	var contribs []any
	for _, dep := range t.TransitiveDependencies() {
		if dep.Target.Module != t.Module && !def.Export {
			continue
		}
		if v, ok := dep.Target.Props.Value(key); ok {
			contribs = append(contribs, v)
		}
	}
	return props.MergeInherited(def, own, ownSet, contribs), nil
}

// Dependency is a directed edge from a depending target to the target it
// needs. The edge carries its own property store modulating how it is
// treated.
type Dependency struct {
	// Target is the dependee the edge points at.
	Target *Target

	// Props holds the edge's property values.
	Props *props.Store
}

// Propagates reports whether the edge is visible past direct dependents
// (the dep.propagate property, true by default).
func (d *Dependency) Propagates() bool {
	v, err := d.Props.Get(PropDepPropagate)
	if err != nil {
		return true
	}
	b, ok := v.(bool)
	return !ok || b
}
