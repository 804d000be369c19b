// Package scheduler orders build sets so that every producer runs
// before its consumers. Edges are never stored: build set A depends on
// build set B iff one of A's input files is among B's outputs, which
// the single-producer invariant makes unambiguous.
package scheduler

import (
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/mason/internal/core/domain"
)

// Index maps output paths to their producing build set within one
// scheduling pass. It is rebuilt from the set list it is given because
// callers assemble selections; the single-producer invariant is
// re-checked on the way.
type Index map[string]*domain.BuildSet

// NewIndex builds the producer index for the given build sets.
func NewIndex(sets []*domain.BuildSet) (Index, error) {
	idx := make(Index)
	for _, bs := range sets {
		for _, out := range bs.OutputFiles() {
			if prev, taken := idx[out]; taken && prev != bs {
				return nil, zerr.With(zerr.With(zerr.With(domain.ErrDuplicateProducer,
					"output", out),
					"producer", prev.Label()),
					"duplicate", bs.Label())
			}
			idx[out] = bs
		}
	}
	return idx, nil
}

// Producers returns the direct producers of the given sets' inputs,
// excluding the sets themselves, in first-encounter order. Recursive
// clean grows its selection by calling this repeatedly until nothing
// new turns up.
func Producers(idx Index, sets []*domain.BuildSet) []*domain.BuildSet {
	seen := make(map[*domain.BuildSet]bool, len(sets))
	for _, bs := range sets {
		seen[bs] = true
	}

	var out []*domain.BuildSet
	for _, bs := range sets {
		for _, in := range bs.InputFiles() {
			p, ok := idx[in]
			if !ok || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

type color uint8

const (
	unvisited color = iota
	onPath
	done
)

type frame struct {
	bs   *domain.BuildSet
	deps []*domain.BuildSet
	next int
}

// Order returns the build sets in topological order: every producer
// precedes its consumers. The traversal visits sets in the given order
// and each set's inputs in declaration order, so the result is stable
// across runs. Placeholder sets participate like any other. A
// dependency cycle fails with the participating sets named in path
// form.
func Order(sets []*domain.BuildSet) ([]*domain.BuildSet, error) {
	idx, err := NewIndex(sets)
	if err != nil {
		return nil, err
	}

	dependenciesOf := func(bs *domain.BuildSet) []*domain.BuildSet {
		var deps []*domain.BuildSet
		for _, in := range bs.InputFiles() {
			if p, ok := idx[in]; ok && p != bs {
				deps = append(deps, p)
			}
		}
		return deps
	}

	colors := make(map[*domain.BuildSet]color, len(sets))
	order := make([]*domain.BuildSet, 0, len(sets))

	for _, root := range sets {
		if colors[root] != unvisited {
			continue
		}

		colors[root] = onPath
		stack := []*frame{{bs: root, deps: dependenciesOf(root)}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			if top.next < len(top.deps) {
				dep := top.deps[top.next]
				top.next++

				switch colors[dep] {
				case unvisited:
					colors[dep] = onPath
					stack = append(stack, &frame{bs: dep, deps: dependenciesOf(dep)})
				case onPath:
					return nil, cycleError(stack, dep)
				case done:
				}
				continue
			}

			colors[top.bs] = done
			order = append(order, top.bs)
			stack = stack[:len(stack)-1]
		}
	}

	return order, nil
}

// cycleError names the cycle members along the traversal path that
// closed back on dep.
func cycleError(stack []*frame, dep *domain.BuildSet) error {
	start := 0
	for i, f := range stack {
		if f.bs == dep {
			start = i
			break
		}
	}

	labels := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		labels = append(labels, f.bs.Label())
	}
	labels = append(labels, dep.Label())

	return zerr.With(domain.ErrCycleDetected, "cycle", strings.Join(labels, " -> "))
}
