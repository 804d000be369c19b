package manifest

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// File is the top-level structure of a mason.yaml project manifest.
type File struct {
	Version    string         `yaml:"version"`
	Properties PropertiesDTO  `yaml:"properties"`
	Pools      map[string]int `yaml:"pools"`
	Modules    []ModuleDTO    `yaml:"modules"`
}

// PropertiesDTO declares the property registries, split by store family.
type PropertiesDTO struct {
	Targets []PropertyDTO `yaml:"targets"`
	Edges   []PropertyDTO `yaml:"edges"`
}

// PropertyDTO declares one property definition.
type PropertyDTO struct {
	Key     string `yaml:"key"`
	Kind    string `yaml:"kind"`
	Default any    `yaml:"default"`
	Inherit bool   `yaml:"inherit"`
	Export  bool   `yaml:"export"`
}

// ModuleDTO declares a module and its targets.
type ModuleDTO struct {
	Name      string      `yaml:"name"`
	Version   string      `yaml:"version"`
	Directory string      `yaml:"directory"`
	Targets   []TargetDTO `yaml:"targets"`
}

// TargetDTO declares a target.
type TargetDTO struct {
	Name      string         `yaml:"name"`
	Explicit  bool           `yaml:"explicit"`
	SyncIO    bool           `yaml:"syncio"`
	Pool      string         `yaml:"pool"`
	Props     map[string]any `yaml:"props"`
	Deps      []DependsDTO   `yaml:"deps"`
	Operators []OperatorDTO  `yaml:"operators"`
}

// DependsDTO declares a dependency edge. Exactly one of Target or Module
// is set: Target points at a single target (qualified module@name or a
// unique bare name), Module expands to the module's non-explicit targets.
type DependsDTO struct {
	Target string         `yaml:"target"`
	Module string         `yaml:"module"`
	Props  map[string]any `yaml:"props"`
}

// OperatorDTO declares an operator with its command templates and the
// build sets applying it.
type OperatorDTO struct {
	Name      string            `yaml:"name"`
	Commands  [][]string        `yaml:"commands"`
	Env       map[string]string `yaml:"env"`
	Dir       string            `yaml:"dir"`
	SyncIO    *bool             `yaml:"syncio"`
	Explicit  *bool             `yaml:"explicit"`
	Pool      string            `yaml:"pool"`
	BuildSets []BuildSetDTO     `yaml:"buildsets"`
}

// BuildSetDTO declares one build set under an operator.
type BuildSetDTO struct {
	Description string  `yaml:"description"`
	Inputs      RoleMap `yaml:"inputs"`
	Outputs     RoleMap `yaml:"outputs"`
}

// Role is one named file set of a build set.
type Role struct {
	Name  string
	Files []string
}

// RoleMap is an ordered list of roles. It decodes from a YAML mapping
// while preserving document order, which a plain Go map would lose; role
// order is what makes scheduling and command rendering deterministic.
type RoleMap struct {
	Roles []Role
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *RoleMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(zerr.New("roles must be a mapping of role name to file list"),
			"line", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var files []string
		if err := node.Content[i+1].Decode(&files); err != nil {
			return zerr.Wrap(err, "invalid file list for role "+node.Content[i].Value)
		}
		r.Roles = append(r.Roles, Role{Name: node.Content[i].Value, Files: files})
	}
	return nil
}
