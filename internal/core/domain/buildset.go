package domain

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// BuildSet is the concrete unit of work: named input and output file
// sets under an operator whose command templates it renders. A build set
// without an operator is a placeholder that participates in ordering but
// executes nothing.
type BuildSet struct {
	// Operator owns the set; nil marks a placeholder.
	Operator *Operator

	// Description is an optional display template; ${role} expands to
	// the role's first file.
	Description string

	inputs      map[string][]string
	outputs     map[string][]string
	inputRoles  []string
	outputRoles []string

	registered bool
}

// NewPlaceholder creates an operator-less build set used purely as an
// ordering bridge.
func NewPlaceholder(description string) *BuildSet {
	return &BuildSet{Description: description}
}

// AddInputs appends files to an input role, creating the role on first
// use. Role declaration order is preserved.
func (b *BuildSet) AddInputs(role string, files ...string) {
	if b.inputs == nil {
		b.inputs = make(map[string][]string)
	}
	if _, ok := b.inputs[role]; !ok {
		b.inputRoles = append(b.inputRoles, role)
	}
	b.inputs[role] = append(b.inputs[role], files...)
}

// AddOutputs appends files to an output role, creating the role on first
// use. Role declaration order is preserved.
func (b *BuildSet) AddOutputs(role string, files ...string) {
	if b.outputs == nil {
		b.outputs = make(map[string][]string)
	}
	if _, ok := b.outputs[role]; !ok {
		b.outputRoles = append(b.outputRoles, role)
	}
	b.outputs[role] = append(b.outputs[role], files...)
}

// Inputs returns the files of one input role.
func (b *BuildSet) Inputs(role string) []string {
	return b.inputs[role]
}

// Outputs returns the files of one output role.
func (b *BuildSet) Outputs(role string) []string {
	return b.outputs[role]
}

// InputRoles returns the input role names in declaration order.
func (b *BuildSet) InputRoles() []string {
	return b.inputRoles
}

// OutputRoles returns the output role names in declaration order.
func (b *BuildSet) OutputRoles() []string {
	return b.outputRoles
}

// InputFiles flattens all input roles in declaration order.
func (b *BuildSet) InputFiles() []string {
	var out []string
	for _, role := range b.inputRoles {
		out = append(out, b.inputs[role]...)
	}
	return out
}

// OutputFiles flattens all output roles in declaration order.
func (b *BuildSet) OutputFiles() []string {
	var out []string
	for _, role := range b.outputRoles {
		out = append(out, b.outputs[role]...)
	}
	return out
}

// Label identifies the build set in logs, errors, and cycle reports.
func (b *BuildSet) Label() string {
	if b.Operator != nil {
		return b.Operator.ID()
	}
	if b.Description != "" {
		return b.Description
	}
	if files := b.OutputFiles(); len(files) > 0 {
		return files[0]
	}
	return "placeholder"
}

// RenderDescription expands the description template, falling back to
// the label when no description was set.
func (b *BuildSet) RenderDescription() string {
	if b.Description == "" {
		return b.Label()
	}
	return expandDescription(b.Description, b)
}

// Fingerprint computes the build set's content hash: a 64-bit xxhash
// over the sorted input file list, the sorted output file list, and the
// rendered command tokens, hex encoded. Environment and file contents do
// not participate; content changes are caught by mtime staleness.
func (b *BuildSet) Fingerprint() (string, error) {
	hasher := xxhash.New()

	writeSection := func(items []string) {
		for _, it := range items {
			_, _ = hasher.WriteString(it)
			_, _ = hasher.Write([]byte{0})
		}
		_, _ = hasher.Write([]byte{0})
	}

	writeSection(sortedCopy(b.InputFiles()))
	writeSection(sortedCopy(b.OutputFiles()))

	if b.Operator != nil {
		flat, err := renderFlat(b.Operator.Commands, b)
		if err != nil {
			return "", err
		}
		writeSection(flat)
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func sortedCopy(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}
