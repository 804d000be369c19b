package domain

// Module is a named scope owning targets. Dependencies may point at a
// whole module, which expands to its non-explicit targets.
type Module struct {
	Name      string
	Version   string
	Directory string

	targets []*Target
}

// Targets returns the module's targets in declaration order.
func (m *Module) Targets() []*Target {
	return m.targets
}

// DefaultTargets returns the targets a module exposes to module-level
// dependencies and to "build everything": every target not marked
// explicit, in declaration order.
func (m *Module) DefaultTargets() []*Target {
	out := make([]*Target, 0, len(m.targets))
	for _, t := range m.targets {
		if t.Explicit {
			continue
		}
		out = append(out, t)
	}
	return out
}
