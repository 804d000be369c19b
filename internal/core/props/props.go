// Package props implements the typed property system that carries
// configuration from project description down to command generation.
// Properties are registered once with a kind and behavior flags, then
// stored per target or per dependency edge.
package props

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrUnknownProperty is returned when a key was never registered. On
	// writes the value is stored anyway; callers log the error as a
	// warning instead of failing so developer intent is not dropped.
	ErrUnknownProperty = zerr.New("unknown property")

	// ErrPropertyExists is returned when a key is registered twice.
	ErrPropertyExists = zerr.New("property already registered")

	// ErrInvalidKey is returned for keys missing the <domain>.<name> form.
	ErrInvalidKey = zerr.New("invalid property key")

	// ErrTypeMismatch is returned when a value does not match the
	// registered kind. The value is not stored.
	ErrTypeMismatch = zerr.New("property type mismatch")

	// ErrNotAppendable is returned when Append is used on a scalar kind.
	ErrNotAppendable = zerr.New("property kind does not append")
)

// Kind identifies the value type of a property.
type Kind int

const (
	// KindString holds a single string.
	KindString Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindInt holds an integer.
	KindInt
	// KindList holds an ordered string list; inheritance concatenates,
	// duplicates preserved.
	KindList
	// KindSet holds a string list deduplicated on merge, first
	// occurrence wins.
	KindSet
)

// String returns the kind name used in error metadata.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a kind name to its Kind, accepting the names String
// produces.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "string":
		return KindString, nil
	case "bool":
		return KindBool, nil
	case "int":
		return KindInt, nil
	case "list":
		return KindList, nil
	case "set":
		return KindSet, nil
	}
	return 0, zerr.With(zerr.New("unknown property kind"), "kind", name)
}

// Definition describes a registered property.
type Definition struct {
	// Key is the property name in <domain>.<name> form, e.g. "cxx.flags".
	Key string
	// Kind is the value type.
	Kind Kind
	// Default is the effective value when nothing was stored. Normalized
	// to the kind at registration.
	Default any
	// Inherit makes the value flow to dependents.
	Inherit bool
	// Export makes the value visible across module boundaries, not just
	// to dependents in the same module.
	Export bool
}

// Registry holds property definitions. One registry exists per store
// family (target properties, dependency edge properties).
type Registry struct {
	defs  map[string]Definition
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition. Keys must contain a dot separating domain
// and name, and may be registered only once. A non-nil default is
// normalized to the kind.
func (r *Registry) Register(def Definition) error {
	if !strings.Contains(def.Key, ".") {
		return zerr.With(ErrInvalidKey, "key", def.Key)
	}
	if _, exists := r.defs[def.Key]; exists {
		return zerr.With(ErrPropertyExists, "key", def.Key)
	}
	if def.Default != nil {
		v, err := coerce(def.Kind, def.Default)
		if err != nil {
			return zerr.Wrap(err, "invalid default for "+def.Key)
		}
		def.Default = v
	}
	r.defs[def.Key] = def
	r.order = append(r.order, def.Key)
	return nil
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	def, ok := r.defs[key]
	return def, ok
}

// Keys returns all registered keys in registration order.
func (r *Registry) Keys() []string {
	return slices.Clone(r.order)
}

// Store holds property values for one owner (a target or a dependency
// edge), validated against a Registry.
type Store struct {
	reg    *Registry
	values map[string]any
}

// NewStore creates an empty Store bound to reg.
func NewStore(reg *Registry) *Store {
	return &Store{reg: reg, values: make(map[string]any)}
}

// Registry returns the registry this store validates against.
func (s *Store) Registry() *Registry {
	return s.reg
}

// Definition looks up the registered definition for key.
func (s *Store) Definition(key string) (Definition, bool) {
	return s.reg.Lookup(key)
}

// Set stores a value for key.
//
// For registered keys the value is normalized to the registered kind; a
// mismatch returns ErrTypeMismatch and stores nothing. For unregistered
// keys the raw value IS stored and ErrUnknownProperty is returned as an
// advisory: callers are expected to warn and continue.
func (s *Store) Set(key string, value any) error {
	def, ok := s.reg.Lookup(key)
	if !ok {
		s.values[key] = value
		return zerr.With(ErrUnknownProperty, "key", key)
	}
	v, err := coerce(def.Kind, value)
	if err != nil {
		return zerr.With(err, "key", key)
	}
	s.values[key] = v
	return nil
}

// Append extends a list or set property with additional elements. Unset
// keys start from the registered default. Scalar kinds return
// ErrNotAppendable; unregistered keys return ErrUnknownProperty without
// storing (there is no kind to append under).
func (s *Store) Append(key string, value any) error {
	def, ok := s.reg.Lookup(key)
	if !ok {
		return zerr.With(ErrUnknownProperty, "key", key)
	}
	if def.Kind != KindList && def.Kind != KindSet {
		return zerr.With(zerr.With(ErrNotAppendable, "key", key), "kind", def.Kind.String())
	}
	add, err := coerce(def.Kind, value)
	if err != nil {
		return zerr.With(err, "key", key)
	}
	base, _ := s.effective(key, def)
	var out []string
	if ss, ok := base.([]string); ok {
		out = append(out, ss...)
	}
	out = append(out, add.([]string)...)
	if def.Kind == KindSet {
		out = dedupe(out)
	}
	s.values[key] = out
	return nil
}

// Get returns the effective value for key: the stored value, else the
// registered default. Keys that are neither registered nor stored return
// ErrUnknownProperty (reading is stricter than writing).
func (s *Store) Get(key string) (any, error) {
	def, registered := s.reg.Lookup(key)
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	if !registered {
		return nil, zerr.With(ErrUnknownProperty, "key", key)
	}
	return def.Default, nil
}

// Value returns the raw stored value without falling back to defaults.
func (s *Store) Value(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// IsSet reports whether a value was stored for key.
func (s *Store) IsSet(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Store) effective(key string, def Definition) (any, bool) {
	if v, ok := s.values[key]; ok {
		return v, true
	}
	return def.Default, def.Default != nil
}

// MergeInherited combines a target's own value with ordered dependency
// contributions according to the definition's kind. List kinds
// concatenate (own value first, duplicates preserved); the set kind
// deduplicates keeping first occurrence. Scalar kinds prefer the own
// stored value, then the first contribution, then the default.
func MergeInherited(def Definition, own any, ownSet bool, contribs []any) any {
	switch def.Kind {
	case KindList, KindSet:
		var out []string
		if ownSet {
			if ss, ok := own.([]string); ok {
				out = append(out, ss...)
			}
		} else if ss, ok := def.Default.([]string); ok {
			out = append(out, ss...)
		}
		for _, c := range contribs {
			if ss, ok := c.([]string); ok {
				out = append(out, ss...)
			}
		}
		if def.Kind == KindSet {
			out = dedupe(out)
		}
		return out
	default:
		if ownSet {
			return own
		}
		if len(contribs) > 0 {
			return contribs[0]
		}
		return def.Default
	}
}

// coerce normalizes value to the representation stored for kind.
func coerce(kind Kind, value any) (any, error) {
	switch kind {
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindInt:
		switch n := value.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		}
	case KindList, KindSet:
		return toStrings(value)
	}
	return nil, zerr.With(ErrTypeMismatch,
		"want", kind.String(),
		"got", fmt.Sprintf("%T", value))
}

// toStrings accepts []string, []any of strings, or a bare string (treated
// as a one-element list, which keeps YAML manifests terse).
func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, zerr.With(ErrTypeMismatch,
					"want", "string element",
					"got", fmt.Sprintf("%T", e))
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{v}, nil
	}
	return nil, zerr.With(ErrTypeMismatch,
		"want", "list",
		"got", fmt.Sprintf("%T", value))
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
