package hir_test

import (
	"bytes"
	"strings"
	"testing"

	"verilab/internal/ast"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/symbols"
	"verilab/internal/vnum"
)

func sig(name string, msb, lsb int64, signed bool) *hir.Expr {
	s := &symbols.Signal{Name: name, Range: symbols.Range{Msb: msb, Lsb: lsb}, Signed: signed, Domain: vnum.DomainLogic}
	return hir.NewSignal(hir.SignalData{Signal: s}, source.Span{})
}

func off(n uint64) *hir.Expr {
	return hir.NewConst(vnum.Uint(n, 32), source.Span{})
}

func TestConstDomain(t *testing.T) {
	if got := hir.NewConst(vnum.MustParse("4'd3"), source.Span{}); got.Domain != vnum.DomainBool || got.Width != 4 {
		t.Fatalf("defined const: %v w=%d", got.Domain, got.Width)
	}
	if got := hir.NewConst(vnum.MustParse("4'b1x00"), source.Span{}); got.Domain != vnum.DomainLogic {
		t.Fatalf("undefined const domain = %v", got.Domain)
	}
}

func TestPadToWidth(t *testing.T) {
	c := hir.NewConst(vnum.MustParse("4'sb1000"), source.Span{})
	p := hir.PadToWidth(c, 8, source.Span{})
	v, ok := p.AsConst()
	if !ok || v.BinaryString() != "11111000" {
		t.Fatalf("padded const = %v", hir.Format(p))
	}
	w := sig("w", 3, 0, false)
	pw := hir.PadToWidth(w, 8, source.Span{})
	if pw.Kind != hir.ExprSelect || pw.Width != 8 {
		t.Fatalf("padded signal = %s w=%d", pw.Kind, pw.Width)
	}
	if hir.PadToWidth(w, 2, source.Span{}) != w {
		t.Fatal("narrower pad must return the input")
	}
}

func TestNewSelectCanonical(t *testing.T) {
	w := sig("w", 15, 0, false)
	if got := hir.NewSelect(w, off(0), 16, source.Span{}); got != w {
		t.Fatalf("full select should return base, got %s", hir.Format(got))
	}
	inner := hir.NewSelect(w, off(4), 8, source.Span{})
	outer := hir.NewSelect(inner, off(2), 4, source.Span{})
	d, ok := outer.Data.(hir.SelectData)
	if !ok || d.Base != w {
		t.Fatalf("nested select not flattened: %s", hir.Format(outer))
	}
	if v, _ := d.Offset.AsConst(); v.BinaryString()[len(v.BinaryString())-3:] != "110" {
		t.Fatalf("offset = %s", hir.Format(d.Offset))
	}

	// 6 + 4 bits run past the 8-bit inner select
	wide := hir.NewSelect(inner, off(6), 4, source.Span{})
	if d, ok := wide.Data.(hir.SelectData); !ok || d.Base != inner {
		t.Fatalf("over-wide select was flattened: %s", hir.Format(wide))
	}
}

func TestFormatAndDump(t *testing.T) {
	a := sig("a", 7, 0, false)
	b := sig("b", 7, 0, false)
	sum := &hir.Expr{
		Kind: hir.ExprBinary, Width: 9, Domain: vnum.DomainLogic,
		Data: hir.BinaryData{Op: ast.OpAdd, Class: hir.BinaryAdd, Left: a, Right: b, Lossless: true},
	}
	if got := hir.Format(sum); got != "(a + b)" {
		t.Fatalf("Format = %q", got)
	}
	var buf bytes.Buffer
	if err := hir.Dump(&buf, sum); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "Binary w=9 u logic + lossless") {
		t.Fatalf("dump:\n%s", buf.String())
	}
	if n := hir.Count(sum, func(e *hir.Expr) bool { return e.Kind == hir.ExprSignal }); n != 2 {
		t.Fatalf("Count = %d", n)
	}
}

func TestExportMsgpack(t *testing.T) {
	c := hir.NewConcat([]*hir.Expr{sig("a", 3, 0, false), off(1)}, 2, source.Span{})
	if c.Width != 72 {
		t.Fatalf("concat width = %d", c.Width)
	}
	data, err := hir.MarshalNode(hir.Export(c))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	n, err := hir.UnmarshalNode(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.Kind != "Concat" || n.Repeat != 2 || len(n.Children) != 2 || n.Children[0].Text != "a" {
		t.Fatalf("decoded node = %+v", n)
	}
}

func TestEqual(t *testing.T) {
	s := &symbols.Signal{Name: "x", Range: symbols.Range{Msb: 3, Lsb: 0}, Domain: vnum.DomainLogic}
	a := hir.NewSignal(hir.SignalData{Signal: s}, source.Span{})
	b := hir.NewSignal(hir.SignalData{Signal: s}, source.Span{})
	if !hir.Equal(a, b) {
		t.Fatal("same signal must compare equal")
	}
	if hir.Equal(a, a.WithSigned(true)) {
		t.Fatal("sign must matter")
	}
}

func TestDumpNodeMatchesDump(t *testing.T) {
	a := sig("a", 7, 0, false)
	p := &symbols.Param{Name: "P", Value: vnum.Uint(5, 8)}
	trees := []*hir.Expr{
		{
			Kind: hir.ExprBinary, Width: 9, Domain: vnum.DomainLogic,
			Data: hir.BinaryData{Op: ast.OpAdd, Class: hir.BinaryAdd, Left: a, Right: a, Lossless: true},
		},
		hir.NewConcat([]*hir.Expr{a, off(3)}, 3, source.Span{}),
		hir.NewSelect(a, off(2), 4, source.Span{}),
		hir.PadToWidth(a, 12, source.Span{}),
		{Kind: hir.ExprConstParam, Width: 8, Domain: vnum.DomainBool, Data: hir.ConstParamData{Param: p, Value: p.Value}},
		hir.NewConstReal(2.5, source.Span{}),
	}
	for _, e := range trees {
		var want, got bytes.Buffer
		if err := hir.Dump(&want, e); err != nil {
			t.Fatal(err)
		}
		if err := hir.DumpNode(&got, hir.Export(e)); err != nil {
			t.Fatal(err)
		}
		if got.String() != want.String() {
			t.Errorf("DumpNode:\n%s\nDump:\n%s", got.String(), want.String())
		}
	}
}
