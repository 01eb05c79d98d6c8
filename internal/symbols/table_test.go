package symbols_test

import (
	"errors"
	"testing"

	"verilab/internal/source"
	"verilab/internal/symbols"
	"verilab/internal/vnum"
)

func buildTable(t *testing.T) (*symbols.Table, symbols.ScopeID, symbols.ScopeID) {
	t.Helper()
	tb := symbols.NewTable()
	top, err := tb.AddScope(tb.Root(), symbols.ScopeModule, "top", source.Span{})
	if err != nil {
		t.Fatalf("AddScope: %v", err)
	}
	gen, err := tb.AddScope(top, symbols.ScopeGenerate, "g", source.Span{})
	if err != nil {
		t.Fatalf("AddScope: %v", err)
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	must(tb.AddSignal(top, &symbols.Signal{Name: "w", Range: symbols.Range{Msb: 7, Lsb: 0}, Domain: vnum.DomainLogic}))
	must(tb.AddSignal(top, &symbols.Signal{Name: "asc", Range: symbols.Range{Msb: 0, Lsb: 7}, Domain: vnum.DomainLogic}))
	must(tb.AddParam(top, &symbols.Param{Name: "P", Value: vnum.Uint(5, 8)}))
	must(tb.AddEvent(top, &symbols.Event{Name: "ev"}))
	must(tb.AddSignal(gen, &symbols.Signal{Name: "inner", Range: symbols.Range{Msb: 3, Lsb: 0}, Domain: vnum.DomainLogic}))
	must(tb.SetGenvar(gen, symbols.Genvar{Name: "i", Value: 2}))
	return tb, top, gen
}

func TestLookupWalksUpward(t *testing.T) {
	tb, top, gen := buildTable(t)
	b := tb.Lookup(gen, []string{"w"})
	if b.Kind != symbols.BindSignal || b.Scope != top {
		t.Fatalf("w from generate: %+v", b)
	}
	if b := tb.Lookup(top, []string{"inner"}); b.Kind != symbols.BindNone {
		t.Fatalf("inner must not be visible from top, got %v", b.Kind)
	}
	if b := tb.Lookup(top, []string{"P"}); b.Kind != symbols.BindParam {
		t.Fatalf("P kind = %v", b.Kind)
	}
	if b := tb.Lookup(top, []string{"ev"}); b.Kind != symbols.BindEvent {
		t.Fatalf("ev kind = %v", b.Kind)
	}
}

func TestHierarchicalLookup(t *testing.T) {
	tb, _, gen := buildTable(t)
	tests := []struct {
		scope symbols.ScopeID
		path  []string
	}{
		{tb.Root(), []string{"top", "g", "inner"}},
		{gen, []string{"g", "inner"}},
		{gen, []string{"top", "g", "inner"}},
	}
	for _, tt := range tests {
		b := tb.Lookup(tt.scope, tt.path)
		if b.Kind != symbols.BindSignal || b.Scope != gen {
			t.Errorf("Lookup(%v) = %+v", tt.path, b)
		}
	}
	if b := tb.Lookup(gen, []string{"nope", "inner"}); b.Kind != symbols.BindNone {
		t.Errorf("bad prefix resolved: %+v", b)
	}
}

func TestDuplicates(t *testing.T) {
	tb, top, _ := buildTable(t)
	err := tb.AddSignal(top, &symbols.Signal{Name: "P"})
	if !errors.Is(err, symbols.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := tb.AddScope(top, symbols.ScopeBlock, "g", source.Span{}); !errors.Is(err, symbols.ErrDuplicate) {
		t.Fatalf("expected duplicate scope, got %v", err)
	}
	if err := tb.AddSignal(99, &symbols.Signal{Name: "x"}); !errors.Is(err, symbols.ErrNoScope) {
		t.Fatalf("expected ErrNoScope, got %v", err)
	}
}

func TestScopesAndGenvar(t *testing.T) {
	tb, top, gen := buildTable(t)
	if got := tb.ScopeName(gen); got != "top.g" {
		t.Fatalf("ScopeName = %q", got)
	}
	if got := tb.ScopeName(tb.Root()); got != "$root" {
		t.Fatalf("root name = %q", got)
	}
	if id, ok := tb.FindScope(tb.Root(), []string{"top", "g"}, false); !ok || id != gen {
		t.Fatalf("absolute FindScope = %d %v", id, ok)
	}
	if id, ok := tb.FindScope(top, []string{"g"}, true); !ok || id != gen {
		t.Fatalf("relative FindScope = %d %v", id, ok)
	}
	if _, ok := tb.FindScope(top, []string{"g"}, false); ok {
		t.Fatal("absolute lookup of g must fail")
	}
	if g, ok := tb.Genvar(gen); !ok || g.Value != 2 {
		t.Fatalf("Genvar = %+v %v", g, ok)
	}
	if _, ok := tb.Genvar(top); ok {
		t.Fatal("top has no genvar")
	}
}

func TestFunctions(t *testing.T) {
	tb, top, gen := buildTable(t)
	ret := &symbols.Signal{Name: "f", Range: symbols.Range{Msb: 15, Lsb: 0}, Domain: vnum.DomainLogic}
	a := &symbols.Signal{Name: "a", Range: symbols.Range{Msb: 3, Lsb: 0}, Domain: vnum.DomainLogic}
	fn, err := tb.AddFunction(top, "f", ret, []*symbols.Signal{a}, source.Span{})
	if err != nil {
		t.Fatalf("AddFunction: %v", err)
	}
	if got := tb.FindFunction(gen, []string{"f"}); got != fn {
		t.Fatalf("FindFunction = %v", got)
	}
	if got := tb.FindFunction(tb.Root(), []string{"top", "f"}); got != fn {
		t.Fatalf("hierarchical FindFunction = %v", got)
	}
	if b := tb.Lookup(fn.Scope, []string{"a"}); b.Signal != a {
		t.Fatalf("port not visible in function scope")
	}
}

func TestRangeMath(t *testing.T) {
	desc := symbols.Range{Msb: 7, Lsb: 0}
	asc := symbols.Range{Msb: 0, Lsb: 7}
	off := symbols.Range{Msb: 10, Lsb: 3}
	if desc.Index(5) != 5 || asc.Index(5) != 2 || off.Index(10) != 7 {
		t.Fatalf("Index: %d %d %d", desc.Index(5), asc.Index(5), off.Index(10))
	}
	if asc.Width() != 8 || !asc.Ascending() || desc.Ascending() {
		t.Fatal("width/direction")
	}
	mem := &symbols.Signal{Name: "m", Range: desc, Array: &symbols.Range{Msb: 15, Lsb: 4}}
	if !mem.WordValid(4) || mem.WordValid(16) || mem.WordAddress(6) != 2 {
		t.Fatal("array addressing")
	}
}
