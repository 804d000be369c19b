package domain

// Operator binds command templates to a target. Each build set under an
// operator renders the templates against its own input and output file
// sets.
type Operator struct {
	// Name is unique within the owning target.
	Name string

	// Target is the owning target.
	Target *Target

	// Commands holds the ordered command templates.
	Commands [][]Token

	// Env is the environment overlay applied to every command. It is
	// merged over the engine's environment per process and never leaks
	// back into it.
	Env map[string]string

	// Dir is the working directory for the commands; empty inherits the
	// engine's.
	Dir string

	// SyncIO overrides the target's flag when non-nil.
	SyncIO *bool

	// Explicit overrides the target's flag when non-nil.
	Explicit *bool

	// Pool overrides the target's pool when non-empty.
	Pool string

	buildSets []*BuildSet
}

// BuildSets returns the operator's build sets in creation order.
func (o *Operator) BuildSets() []*BuildSet {
	return o.buildSets
}

// NewBuildSet creates an empty build set under the operator. The set
// becomes schedulable once registered with the graph.
func (o *Operator) NewBuildSet() *BuildSet {
	bs := &BuildSet{Operator: o}
	o.buildSets = append(o.buildSets, bs)
	return bs
}

// EffectiveSyncIO resolves the operator override against the target flag.
func (o *Operator) EffectiveSyncIO() bool {
	if o.SyncIO != nil {
		return *o.SyncIO
	}
	return o.Target.SyncIO
}

// EffectiveExplicit resolves the operator override against the target flag.
func (o *Operator) EffectiveExplicit() bool {
	if o.Explicit != nil {
		return *o.Explicit
	}
	return o.Target.Explicit
}

// EffectivePool resolves the operator override against the target pool.
func (o *Operator) EffectivePool() string {
	if o.Pool != "" {
		return o.Pool
	}
	return o.Target.Pool
}

// ID returns the qualified operator name in module@target/operator form.
func (o *Operator) ID() string {
	return o.Target.ID() + "/" + o.Name
}
