// Package manifest loads mason.yaml project descriptions and compiles
// them into build graphs.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/core/props"
)

// Loader implements ports.GraphLoader for YAML manifests.
type Loader struct {
	log ports.Logger
}

var _ ports.GraphLoader = (*Loader)(nil)

// New creates a Loader.
func New(log ports.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads the manifest at path and compiles it into a graph. Input
// paths resolve relative to the owning module's directory; output paths
// resolve under the layout's per-module output directory. The `${out}`
// prefix (or `${out:module}` for another module) names an output
// directory explicitly, which is how a set consumes files another set
// produces.
func (l *Loader) Load(path string, layout domain.Layout) (*domain.Graph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the --file flag.
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read project manifest")
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse project manifest")
	}

	b := &builder{
		graph:  domain.NewGraph(),
		layout: layout,
		log:    l.log,
		base:   filepath.Dir(path),
	}
	if err := b.build(&file); err != nil {
		return nil, err
	}
	l.log.Debug(fmt.Sprintf("loaded %d modules from %s", len(file.Modules), path))
	return b.graph, nil
}

// builder carries the state of one manifest translation.
type builder struct {
	graph  *domain.Graph
	layout domain.Layout
	log    ports.Logger
	base   string
}

func (b *builder) build(file *File) error {
	if err := b.registerProperties(file.Properties); err != nil {
		return err
	}
	if err := b.declarePools(file.Pools); err != nil {
		return err
	}

	// Modules and targets are declared up front so dependencies and
	// output-directory references can point forward in the document.
	for _, mod := range file.Modules {
		m, err := b.graph.AddModule(mod.Name, mod.Version, filepath.Join(b.base, mod.Directory))
		if err != nil {
			return err
		}
		for _, tgt := range mod.Targets {
			t, err := b.graph.AddTarget(m, tgt.Name)
			if err != nil {
				return err
			}
			t.Explicit = tgt.Explicit
			t.SyncIO = tgt.SyncIO
			t.Pool = tgt.Pool
			if err := b.applyProps(t.Props, tgt.Props, "target "+t.ID()); err != nil {
				return err
			}
		}
	}

	for _, mod := range file.Modules {
		m, _ := b.graph.Module(mod.Name)
		for _, tgt := range mod.Targets {
			t, _ := b.graph.Target(mod.Name + "@" + tgt.Name)
			if err := b.addDependencies(t, tgt.Deps); err != nil {
				return err
			}
			if err := b.addOperators(m, t, tgt.Operators); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) registerProperties(dto PropertiesDTO) error {
	if err := registerInto(b.graph.TargetProperties(), dto.Targets); err != nil {
		return zerr.Wrap(err, "invalid target property declaration")
	}
	if err := registerInto(b.graph.EdgeProperties(), dto.Edges); err != nil {
		return zerr.Wrap(err, "invalid edge property declaration")
	}
	return nil
}

func registerInto(reg *props.Registry, defs []PropertyDTO) error {
	for _, d := range defs {
		kind, err := props.ParseKind(d.Kind)
		if err != nil {
			return zerr.With(err, "key", d.Key)
		}
		err = reg.Register(props.Definition{
			Key:     d.Key,
			Kind:    kind,
			Default: d.Default,
			Inherit: d.Inherit,
			Export:  d.Export,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) declarePools(pools map[string]int) error {
	names := make([]string, 0, len(pools))
	for name := range pools {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := b.graph.DeclarePool(name, pools[name]); err != nil {
			return err
		}
	}
	return nil
}

// applyProps stores manifest values into a property store. Unregistered
// keys are stored anyway and logged as warnings; only mistyped values
// for registered keys fail the load.
func (b *builder) applyProps(store *props.Store, values map[string]any, owner string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		err := store.Set(key, values[key])
		switch {
		case err == nil:
		case errors.Is(err, props.ErrUnknownProperty):
			b.log.Warn(fmt.Sprintf("%s sets unregistered property %s", owner, key))
		default:
			return zerr.Wrap(err, "invalid property value on "+owner)
		}
	}
	return nil
}

func (b *builder) addDependencies(t *domain.Target, deps []DependsDTO) error {
	for _, dto := range deps {
		switch {
		case dto.Target != "" && dto.Module != "":
			return zerr.With(zerr.New("dependency names both a target and a module"),
				"target", t.ID())

		case dto.Target != "":
			resolved, err := b.graph.ResolveTargets([]string{dto.Target})
			if err != nil {
				return zerr.Wrap(err, "unresolvable dependency of "+t.ID())
			}
			dep, err := b.graph.AddDependency(t, resolved[0])
			if err != nil {
				return err
			}
			if err := b.applyProps(dep.Props, dto.Props, "edge "+t.ID()+" -> "+resolved[0].ID()); err != nil {
				return err
			}

		case dto.Module != "":
			m, ok := b.graph.Module(dto.Module)
			if !ok {
				return zerr.With(domain.ErrNoSuchModule, "module", dto.Module, "target", t.ID())
			}
			edges, err := b.graph.AddModuleDependency(t, m)
			if err != nil {
				return err
			}
			for _, dep := range edges {
				if err := b.applyProps(dep.Props, dto.Props, "edge "+t.ID()+" -> "+dep.Target.ID()); err != nil {
					return err
				}
			}

		default:
			return zerr.With(zerr.New("dependency names neither a target nor a module"),
				"target", t.ID())
		}
	}
	return nil
}

func (b *builder) addOperators(m *domain.Module, t *domain.Target, ops []OperatorDTO) error {
	for _, dto := range ops {
		commands, err := parseCommands(dto.Commands)
		if err != nil {
			return zerr.Wrap(err, "invalid command template on target "+t.ID())
		}

		op, err := t.NewOperator(dto.Name, commands)
		if err != nil {
			return err
		}
		op.Env = dto.Env
		op.Dir = dto.Dir
		op.SyncIO = dto.SyncIO
		op.Explicit = dto.Explicit
		op.Pool = dto.Pool

		for _, bsDTO := range dto.BuildSets {
			bs := op.NewBuildSet()
			bs.Description = bsDTO.Description

			for _, role := range bsDTO.Inputs.Roles {
				files, err := b.resolveAll(m, role.Files, false)
				if err != nil {
					return err
				}
				bs.AddInputs(role.Name, files...)
			}
			for _, role := range bsDTO.Outputs.Roles {
				files, err := b.resolveAll(m, role.Files, true)
				if err != nil {
					return err
				}
				bs.AddOutputs(role.Name, files...)
			}

			if err := b.graph.RegisterBuildSet(bs); err != nil {
				return err
			}
		}
	}
	return nil
}

const (
	outDirRef       = "${out}"
	outDirModulePre = "${out:"
)

func (b *builder) resolveAll(m *domain.Module, paths []string, output bool) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		resolved, err := b.resolvePath(m, p, output)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// resolvePath turns a manifest file reference into the path the engine
// uses. Both sides of a producer/consumer pair resolve to the identical
// string, which is what the producer index matches on.
func (b *builder) resolvePath(m *domain.Module, path string, output bool) (string, error) {
	if rest, ok := strings.CutPrefix(path, outDirRef); ok {
		return filepath.Join(b.layout.ModuleOutDir(m.Name), strings.TrimPrefix(rest, "/")), nil
	}

	if strings.HasPrefix(path, outDirModulePre) {
		end := strings.IndexByte(path, '}')
		if end < 0 {
			return "", zerr.With(zerr.New("unterminated output directory reference"), "path", path)
		}
		name := path[len(outDirModulePre):end]
		if _, ok := b.graph.Module(name); !ok {
			return "", zerr.With(domain.ErrNoSuchModule, "module", name, "path", path)
		}
		rest := strings.TrimPrefix(path[end+1:], "/")
		return filepath.Join(b.layout.ModuleOutDir(name), rest), nil
	}

	if filepath.IsAbs(path) {
		return path, nil
	}
	if output {
		return filepath.Join(b.layout.ModuleOutDir(m.Name), path), nil
	}
	return filepath.Join(m.Directory, path), nil
}
