package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

func mustModule(t *testing.T, g *domain.Graph, name string) *domain.Module {
	t.Helper()
	m, err := g.AddModule(name, "1.0", "")
	if err != nil {
		t.Fatalf("add module %s: %v", name, err)
	}
	return m
}

func mustTarget(t *testing.T, g *domain.Graph, m *domain.Module, name string) *domain.Target {
	t.Helper()
	tgt, err := g.AddTarget(m, name)
	if err != nil {
		t.Fatalf("add target %s: %v", name, err)
	}
	return tgt
}

func mustOperator(t *testing.T, tgt *domain.Target, name string, commands [][]domain.Token) *domain.Operator {
	t.Helper()
	op, err := tgt.NewOperator(name, commands)
	if err != nil {
		t.Fatalf("add operator %s: %v", name, err)
	}
	return op
}

func mustRegister(t *testing.T, g *domain.Graph, bs *domain.BuildSet) {
	t.Helper()
	if err := g.RegisterBuildSet(bs); err != nil {
		t.Fatalf("register build set %s: %v", bs.Label(), err)
	}
}

func TestGraph_AddModule_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	mustModule(t, g, "hello")

	_, err := g.AddModule("hello", "2.0", "")
	if !errors.Is(err, domain.ErrModuleExists) {
		t.Fatalf("expected ErrModuleExists, got %v", err)
	}
}

func TestGraph_AddTarget_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")
	mustTarget(t, g, m, "compile")

	_, err := g.AddTarget(m, "compile")
	if !errors.Is(err, domain.ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if id, ok := zErr.Metadata()["target"].(string); !ok || id != "hello@compile" {
		t.Errorf("expected metadata target=hello@compile, got %v", zErr.Metadata()["target"])
	}
}

func TestGraph_AddDependency_Duplicate(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")
	a := mustTarget(t, g, m, "a")
	b := mustTarget(t, g, m, "b")

	if _, err := g.AddDependency(a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.AddDependency(a, b); !errors.Is(err, domain.ErrDuplicateDependency) {
		t.Fatalf("expected ErrDuplicateDependency, got %v", err)
	}
}

func TestTarget_NewOperator(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")
	tgt := mustTarget(t, g, m, "compile")

	op := mustOperator(t, tgt, "", nil)
	if op.Name != "op#1" {
		t.Errorf("expected generated name op#1, got %s", op.Name)
	}

	mustOperator(t, tgt, "cc", nil)
	if _, err := tgt.NewOperator("cc", nil); !errors.Is(err, domain.ErrOperatorExists) {
		t.Fatalf("expected ErrOperatorExists, got %v", err)
	}
}

func TestGraph_RegisterBuildSet_SingleProducer(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")
	tgt := mustTarget(t, g, m, "compile")
	op := mustOperator(t, tgt, "cc", nil)

	first := op.NewBuildSet()
	first.AddOutputs("obj", "out/main.o")
	mustRegister(t, g, first)

	second := op.NewBuildSet()
	second.AddOutputs("obj", "out/main.o")
	err := g.RegisterBuildSet(second)
	if !errors.Is(err, domain.ErrDuplicateProducer) {
		t.Fatalf("expected ErrDuplicateProducer, got %v", err)
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	meta := zErr.Metadata()
	if out, ok := meta["output"].(string); !ok || out != "out/main.o" {
		t.Errorf("expected metadata output=out/main.o, got %v", meta["output"])
	}

	// The rejected set must not have claimed any outputs.
	if p, _ := g.Producer("out/main.o"); p != first {
		t.Error("producer index corrupted by rejected registration")
	}
}

func TestGraph_RegisterBuildSet_Twice(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")
	tgt := mustTarget(t, g, m, "compile")
	op := mustOperator(t, tgt, "cc", nil)

	bs := op.NewBuildSet()
	bs.AddOutputs("obj", "out/main.o")
	mustRegister(t, g, bs)

	if err := g.RegisterBuildSet(bs); !errors.Is(err, domain.ErrBuildSetRegistered) {
		t.Fatalf("expected ErrBuildSetRegistered, got %v", err)
	}
}

func TestGraph_ResolveTargets(t *testing.T) {
	g := domain.NewGraph()
	hello := mustModule(t, g, "hello")
	world := mustModule(t, g, "world")
	mustTarget(t, g, hello, "compile")
	mustTarget(t, g, world, "compile")
	mustTarget(t, g, world, "link")

	got, err := g.ResolveTargets([]string{"hello@compile", "link"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID() != "hello@compile" || got[1].ID() != "world@link" {
		t.Errorf("unexpected resolution: %v", got)
	}

	if _, err := g.ResolveTargets([]string{"compile"}); !errors.Is(err, domain.ErrAmbiguousTarget) {
		t.Errorf("expected ErrAmbiguousTarget, got %v", err)
	}
	if _, err := g.ResolveTargets([]string{"nope"}); !errors.Is(err, domain.ErrNoSuchTarget) {
		t.Errorf("expected ErrNoSuchTarget, got %v", err)
	}
	if _, err := g.ResolveTargets([]string{"hello@nope"}); !errors.Is(err, domain.ErrNoSuchTarget) {
		t.Errorf("expected ErrNoSuchTarget for qualified miss, got %v", err)
	}
}

func TestGraph_SelectBuildSets_Default(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")

	regular := mustTarget(t, g, m, "lib")
	regOp := mustOperator(t, regular, "cc", nil)
	regSet := regOp.NewBuildSet()
	regSet.AddOutputs("obj", "out/lib.o")
	mustRegister(t, g, regSet)

	hidden := mustTarget(t, g, m, "bench")
	hidden.Explicit = true
	hidOp := mustOperator(t, hidden, "cc", nil)
	hidSet := hidOp.NewBuildSet()
	hidSet.AddOutputs("obj", "out/bench.o")
	mustRegister(t, g, hidSet)

	got, err := g.SelectBuildSets(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != regSet {
		t.Fatalf("expected only the non-explicit set, got %d sets", len(got))
	}

	// Naming the explicit target selects it.
	got, err = g.SelectBuildSets([]string{"bench"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != hidSet {
		t.Fatalf("expected the explicit set when named, got %d sets", len(got))
	}
}

func TestGraph_SelectBuildSets_ProducerClosure(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")

	// Explicit generator produces a header consumed by the compile set.
	gen := mustTarget(t, g, m, "gen")
	gen.Explicit = true
	genOp := mustOperator(t, gen, "gen", nil)
	genSet := genOp.NewBuildSet()
	genSet.AddOutputs("hdr", "out/gen.h")
	mustRegister(t, g, genSet)

	// A placeholder bridges the header to a staged copy.
	bridge := domain.NewPlaceholder("stage gen.h")
	bridge.AddInputs("hdr", "out/gen.h")
	bridge.AddOutputs("hdr", "out/stage/gen.h")
	mustRegister(t, g, bridge)

	compile := mustTarget(t, g, m, "compile")
	ccOp := mustOperator(t, compile, "cc", nil)
	ccSet := ccOp.NewBuildSet()
	ccSet.AddInputs("src", "main.c")
	ccSet.AddInputs("hdr", "out/stage/gen.h")
	ccSet.AddOutputs("obj", "out/main.o")
	mustRegister(t, g, ccSet)

	got, err := g.SelectBuildSets(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Default selection is just ccSet; the closure pulls the placeholder
	// and the explicit generator, in registration order.
	if len(got) != 3 {
		t.Fatalf("expected 3 sets after closure, got %d", len(got))
	}
	if got[0] != genSet || got[1] != bridge || got[2] != ccSet {
		t.Errorf("unexpected selection order: %v, %v, %v", got[0].Label(), got[1].Label(), got[2].Label())
	}
}

func TestGraph_CleanBuildSets(t *testing.T) {
	g := domain.NewGraph()
	m := mustModule(t, g, "hello")

	gen := mustTarget(t, g, m, "gen")
	gen.Explicit = true
	genOp := mustOperator(t, gen, "gen", nil)
	genSet := genOp.NewBuildSet()
	genSet.AddOutputs("hdr", "out/gen.h")
	mustRegister(t, g, genSet)

	compile := mustTarget(t, g, m, "compile")
	ccOp := mustOperator(t, compile, "cc", nil)
	ccSet := ccOp.NewBuildSet()
	ccSet.AddInputs("hdr", "out/gen.h")
	ccSet.AddOutputs("obj", "out/main.o")
	mustRegister(t, g, ccSet)

	// No names selects everything, explicit targets included.
	got, err := g.CleanBuildSets(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(got))
	}

	// Naming a target selects only its own sets, no producer closure.
	got, err = g.CleanBuildSets([]string{"compile"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != ccSet {
		t.Fatalf("expected only the compile set, got %d sets", len(got))
	}

	if _, err := g.CleanBuildSets([]string{"nope"}); !errors.Is(err, domain.ErrNoSuchTarget) {
		t.Errorf("expected ErrNoSuchTarget, got %v", err)
	}
}

func TestGraph_AddModuleDependency(t *testing.T) {
	g := domain.NewGraph()
	libs := mustModule(t, g, "libs")
	mustTarget(t, g, libs, "a")
	mustTarget(t, g, libs, "b")
	bench := mustTarget(t, g, libs, "bench")
	bench.Explicit = true

	app := mustModule(t, g, "app")
	main := mustTarget(t, g, app, "main")

	deps, err := g.AddModuleDependency(main, libs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("expected 2 edges (explicit target skipped), got %d", len(deps))
	}
	if deps[0].Target.Name != "a" || deps[1].Target.Name != "b" {
		t.Errorf("unexpected expansion order: %s, %s", deps[0].Target.Name, deps[1].Target.Name)
	}
}

func TestGraph_DeclarePool(t *testing.T) {
	g := domain.NewGraph()

	if err := g.DeclarePool("link", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.DeclarePool("link", 2); err != nil {
		t.Fatalf("same-depth redeclaration must be idempotent: %v", err)
	}
	if err := g.DeclarePool("link", 4); !errors.Is(err, domain.ErrPoolConflict) {
		t.Fatalf("expected ErrPoolConflict, got %v", err)
	}

	pools := g.Pools()
	if len(pools) != 1 || pools[0].Name != "link" || pools[0].Depth != 2 {
		t.Errorf("unexpected pools: %v", pools)
	}
}
