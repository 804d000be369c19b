package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/mason/internal/adapters/manifest"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.trai.ch/mason/internal/core/props"
)

// quietLogger fails the test on any log call above debug.
func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return log
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mason.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testLayout() domain.Layout {
	return domain.Layout{Root: "build", Variant: "debug"}
}

func TestLoad_Success(t *testing.T) {
	content := `
version: "1"

properties:
  targets:
    - key: cxx.flags
      kind: list
      inherit: true
      export: true
    - key: cxx.standard
      kind: string
      default: c17

pools:
  link: 2

modules:
  - name: hello
    version: "1.0"
    directory: hello
    targets:
      - name: gen
        explicit: true
        operators:
          - name: gen
            commands:
              - ["gen", "$<in", "$@out"]
            buildsets:
              - description: "generate ${out}"
                inputs:
                  in: ["gen.h.in"]
                outputs:
                  out: ["gen.h"]
      - name: compile
        pool: link
        props:
          cxx.flags: ["-O2"]
        deps:
          - target: hello@gen
        operators:
          - name: cc
            env:
              CC: gcc
            commands:
              - ["gcc", "-c", "$<src", "-o${@obj}"]
            buildsets:
              - inputs:
                  src: ["main.c"]
                  hdr: ["${out}/gen.h"]
                outputs:
                  obj: ["main.o"]
`
	path := writeManifest(t, content)
	base := filepath.Dir(path)
	layout := testLayout()

	g, err := manifest.New(quietLogger(t)).Load(path, layout)
	require.NoError(t, err)

	// Module directory resolves against the manifest's directory.
	m, ok := g.Module("hello")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "hello"), m.Directory)
	assert.Equal(t, "1.0", m.Version)

	gen, ok := g.Target("hello@gen")
	require.True(t, ok)
	assert.True(t, gen.Explicit)

	compile, ok := g.Target("hello@compile")
	require.True(t, ok)
	assert.Equal(t, "link", compile.Pool)

	// Properties: stored value and registered default.
	flags, err := compile.Props.Get("cxx.flags")
	require.NoError(t, err)
	assert.Equal(t, []string{"-O2"}, flags)
	std, err := compile.Props.Get("cxx.standard")
	require.NoError(t, err)
	assert.Equal(t, "c17", std)

	// Dependency edge.
	deps := compile.Dependencies()
	require.Len(t, deps, 1)
	assert.Same(t, gen, deps[0].Target)

	// Pool declaration.
	pools := g.Pools()
	require.Len(t, pools, 1)
	assert.Equal(t, domain.Pool{Name: "link", Depth: 2}, pools[0])

	// Build sets registered in document order.
	sets := g.BuildSets()
	require.Len(t, sets, 2)
	genSet, ccSet := sets[0], sets[1]
	assert.Equal(t, "hello@gen/gen", genSet.Label())
	assert.Equal(t, "hello@compile/cc", ccSet.Label())

	// Inputs resolve against the module directory, outputs under the
	// layout's module output directory.
	genHeader := filepath.Join("build", "debug", "hello", "gen.h")
	assert.Equal(t, []string{filepath.Join(base, "hello", "gen.h.in")}, genSet.Inputs("in"))
	assert.Equal(t, []string{genHeader}, genSet.Outputs("out"))

	// The consumer's ${out} reference lands on the producer's exact path.
	assert.Equal(t, []string{genHeader}, ccSet.Inputs("hdr"))
	producer, ok := g.Producer(genHeader)
	require.True(t, ok)
	assert.Same(t, genSet, producer)

	// Operator surface.
	op := ccSet.Operator
	require.NotNil(t, op)
	assert.Equal(t, map[string]string{"CC": "gcc"}, op.Env)
	assert.Equal(t, "link", op.EffectivePool())

	// Commands render against the resolved paths.
	argvs, err := domain.RenderCommands(op.Commands, ccSet)
	require.NoError(t, err)
	require.Len(t, argvs, 1)
	assert.Equal(t, []string{
		"gcc", "-c",
		filepath.Join(base, "hello", "main.c"),
		"-o" + filepath.Join("build", "debug", "hello", "main.o"),
	}, argvs[0])

	// Description template expands roles.
	assert.Equal(t, "generate "+genHeader, genSet.RenderDescription())
}

func TestLoad_CrossModuleOutputReference(t *testing.T) {
	content := `
version: "1"
modules:
  - name: gen
    targets:
      - name: headers
        operators:
          - commands: [["gen", "$@out"]]
            buildsets:
              - outputs:
                  out: ["api.h"]
  - name: app
    targets:
      - name: compile
        operators:
          - commands: [["cc", "$<hdr"]]
            buildsets:
              - inputs:
                  hdr: ["${out:gen}/api.h"]
                outputs:
                  obj: ["main.o"]
`
	path := writeManifest(t, content)

	g, err := manifest.New(quietLogger(t)).Load(path, testLayout())
	require.NoError(t, err)

	sets := g.BuildSets()
	require.Len(t, sets, 2)

	want := filepath.Join("build", "debug", "gen", "api.h")
	assert.Equal(t, []string{want}, sets[0].OutputFiles())
	assert.Equal(t, []string{want}, sets[1].InputFiles())
}

func TestLoad_UnregisteredPropertyWarns(t *testing.T) {
	content := `
version: "1"
modules:
  - name: hello
    targets:
      - name: compile
        props:
          custom.key: experimental
`
	path := writeManifest(t, content)

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).Times(1)

	g, err := manifest.New(log).Load(path, testLayout())
	require.NoError(t, err)

	// The value is stored despite the warning.
	tgt, ok := g.Target("hello@compile")
	require.True(t, ok)
	v, set := tgt.Props.Value("custom.key")
	require.True(t, set)
	assert.Equal(t, "experimental", v)
}

func TestLoad_ModuleDependencyExpansion(t *testing.T) {
	content := `
version: "1"

properties:
  edges:
    - key: link.static
      kind: bool
      default: false

modules:
  - name: libs
    targets:
      - name: a
      - name: b
      - name: bench
        explicit: true
  - name: app
    targets:
      - name: main
        deps:
          - module: libs
            props:
              link.static: true
`
	path := writeManifest(t, content)

	g, err := manifest.New(quietLogger(t)).Load(path, testLayout())
	require.NoError(t, err)

	main, ok := g.Target("app@main")
	require.True(t, ok)

	deps := main.Dependencies()
	require.Len(t, deps, 2)
	assert.Equal(t, "libs@a", deps[0].Target.ID())
	assert.Equal(t, "libs@b", deps[1].Target.ID())

	for _, dep := range deps {
		v, err := dep.Props.Get("link.static")
		require.NoError(t, err)
		assert.Equal(t, true, v)
	}
}

func TestLoad_OperatorNameGenerated(t *testing.T) {
	content := `
version: "1"
modules:
  - name: hello
    targets:
      - name: compile
        operators:
          - commands: [["true"]]
          - commands: [["true"]]
`
	path := writeManifest(t, content)

	g, err := manifest.New(quietLogger(t)).Load(path, testLayout())
	require.NoError(t, err)

	tgt, ok := g.Target("hello@compile")
	require.True(t, ok)
	ops := tgt.Operators()
	require.Len(t, ops, 2)
	assert.Equal(t, "op#1", ops[0].Name)
	assert.Equal(t, "op#2", ops[1].Name)
}

func TestLoad_Errors(t *testing.T) {
	layout := testLayout()

	t.Run("File Not Found", func(t *testing.T) {
		_, err := manifest.New(quietLogger(t)).Load("does-not-exist.yaml", layout)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read project manifest")
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		path := writeManifest(t, "modules: [broken")
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse project manifest")
	})

	t.Run("Unknown Property Kind", func(t *testing.T) {
		path := writeManifest(t, `
properties:
  targets:
    - key: cxx.flags
      kind: float
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown property kind")
	})

	t.Run("Mistyped Property Value", func(t *testing.T) {
		path := writeManifest(t, `
properties:
  targets:
    - key: cxx.optimize
      kind: bool
modules:
  - name: hello
    targets:
      - name: compile
        props:
          cxx.optimize: "yes"
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.ErrorIs(t, err, props.ErrTypeMismatch)
	})

	t.Run("Dependency Names Both Forms", func(t *testing.T) {
		path := writeManifest(t, `
modules:
  - name: hello
    targets:
      - name: a
      - name: b
        deps:
          - target: hello@a
            module: hello
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both a target and a module")
	})

	t.Run("Dependency Names Neither Form", func(t *testing.T) {
		path := writeManifest(t, `
modules:
  - name: hello
    targets:
      - name: a
        deps:
          - props:
              dep.propagate: false
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "neither a target nor a module")
	})

	t.Run("Unknown Dependency Target", func(t *testing.T) {
		path := writeManifest(t, `
modules:
  - name: hello
    targets:
      - name: a
        deps:
          - target: hello@missing
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.ErrorIs(t, err, domain.ErrNoSuchTarget)
	})

	t.Run("Unknown Output Directory Module", func(t *testing.T) {
		path := writeManifest(t, `
modules:
  - name: hello
    targets:
      - name: a
        operators:
          - commands: [["cc"]]
            buildsets:
              - inputs:
                  hdr: ["${out:nope}/api.h"]
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.ErrorIs(t, err, domain.ErrNoSuchModule)
	})

	t.Run("Duplicate Producer", func(t *testing.T) {
		path := writeManifest(t, `
modules:
  - name: hello
    targets:
      - name: a
        operators:
          - commands: [["cc"]]
            buildsets:
              - outputs:
                  out: ["shared.o"]
      - name: b
        operators:
          - commands: [["cc"]]
            buildsets:
              - outputs:
                  out: ["shared.o"]
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.ErrorIs(t, err, domain.ErrDuplicateProducer)
	})

	t.Run("Bad Command Token", func(t *testing.T) {
		path := writeManifest(t, `
modules:
  - name: hello
    targets:
      - name: a
        operators:
          - commands: [["cc", "-o${@obj"]]
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid command template")
	})

	t.Run("Duplicate Module", func(t *testing.T) {
		path := writeManifest(t, `
modules:
  - name: hello
  - name: hello
`)
		_, err := manifest.New(quietLogger(t)).Load(path, layout)
		require.ErrorIs(t, err, domain.ErrModuleExists)
	})
}
