package elab_test

import (
	"testing"

	"verilab/internal/diag"
	"verilab/internal/elab"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/vnum"
)

func TestPartSelectOfSelectAssociates(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())

	low := f.ok(t, "w[3:0]", elab.NoWidth)
	again := hir.NewSelect(low, hir.NewConst(vnum.Uint(0, 32), source.Span{}), 4, source.Span{})
	if !hir.Equal(again, low) {
		t.Fatalf("w[3:0][3:0] = %s, want %s", hir.Format(again), hir.Format(low))
	}

	mid := f.ok(t, "w[5:2]", elab.NoWidth)
	inner := hir.NewSelect(mid, hir.NewConst(vnum.Uint(0, 32), source.Span{}), 2, source.Span{})
	direct := f.ok(t, "w[3:2]", elab.NoWidth)
	if !hir.Equal(inner, direct) {
		t.Fatalf("w[5:2][1:0] = %s, want %s", hir.Format(inner), hir.Format(direct))
	}
}

func TestPartSelect(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())

	if out := f.ok(t, "w[7:0]", elab.NoWidth); out.Kind != hir.ExprSignal {
		t.Fatalf("full select should return the signal, got %s", hir.Format(out))
	}
	if out := f.ok(t, "asc[0:7]", elab.NoWidth); out.Kind != hir.ExprSignal {
		t.Fatalf("full ascending select should return the signal, got %s", hir.Format(out))
	}

	out := f.ok(t, "asc[1:2]", elab.NoWidth)
	d, ok := out.Data.(hir.SelectData)
	if !ok || out.Width != 2 {
		t.Fatalf("asc[1:2]: %s", hir.Format(out))
	}
	if n, _ := constValue(t, d.Offset).Int64(); n != 5 {
		t.Fatalf("asc[1:2] offset %d, want 5", n)
	}

	f.fails(t, "w[0:7]", diag.ElabOutOfOrderRange)
	f.fails(t, "asc[7:0]", diag.ElabOutOfOrderRange)
	f.fails(t, "w[idx:0]", diag.ElabNonConstantSelect)
	f.fails(t, "w[3:idx]", diag.ElabNonConstantSelect)
}

func TestPartSelectOutsideRange(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())

	r := f.run(t, f.top, "w[10:9]", elab.NoWidth, false)
	if r.cnt.Errors() != 0 || !r.has(diag.ElabOutOfRangeSelect) {
		t.Fatalf("w[10:9]: %v", r.bag.Items())
	}
	v := constValue(t, r.out)
	if v.Len() != 2 || v.Bit(0) != vnum.BX || v.Bit(1) != vnum.BX {
		t.Fatalf("w[10:9] = %s, want 2'bxx", v)
	}

	tests := []struct {
		in    string
		parts []hir.ExprKind
	}{
		{"w[9:6]", []hir.ExprKind{hir.ExprConst, hir.ExprSelect}},
		{"w[1:-2]", []hir.ExprKind{hir.ExprSelect, hir.ExprConst}},
		{"w[9:-1]", []hir.ExprKind{hir.ExprConst, hir.ExprSignal, hir.ExprConst}},
		{"asc[-1:2]", []hir.ExprKind{hir.ExprConst, hir.ExprSelect}},
	}
	for _, tt := range tests {
		r := f.run(t, f.top, tt.in, elab.NoWidth, false)
		if r.out == nil || r.cnt.Errors() != 0 || !r.has(diag.ElabOutOfRangeSelect) {
			t.Errorf("%q: %v", tt.in, r.bag.Items())
			continue
		}
		d, ok := r.out.Data.(hir.ConcatData)
		if !ok || len(d.Parts) != len(tt.parts) {
			t.Errorf("%q: got %s", tt.in, hir.Format(r.out))
			continue
		}
		for i, k := range tt.parts {
			if d.Parts[i].Kind != k {
				t.Errorf("%q: part %d is %s, want %s", tt.in, i, d.Parts[i].Kind, k)
			}
		}
	}
	if out := f.ok(t, "w[9:-1]", elab.NoWidth); out.Width != 11 {
		t.Fatalf("w[9:-1] width %d", out.Width)
	}
}

func TestIndexedSelectWithConstantBase(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())
	tests := []struct{ indexed, part string }{
		{"w[2 +: 3]", "w[4:2]"},
		{"w[5 -: 3]", "w[5:3]"},
		{"w[0 +: 8]", "w[7:0]"},
		{"asc[2 +: 3]", "asc[2:4]"},
		{"asc[4 -: 3]", "asc[2:4]"},
		{"w[6 +: 4]", "w[9:6]"},
	}
	for _, tt := range tests {
		got := f.ok(t, tt.indexed, elab.NoWidth)
		want := f.ok(t, tt.part, elab.NoWidth)
		if !hir.Equal(got, want) {
			t.Errorf("%s = %s, want %s", tt.indexed, hir.Format(got), hir.Format(want))
		}
	}
}

func TestIndexedSelectWithRuntimeBase(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())

	out := f.ok(t, "w[idx +: 3]", elab.NoWidth)
	d := out.Data.(hir.SelectData)
	if out.Width != 3 || d.Offset.Kind != hir.ExprSignal {
		t.Fatalf("w[idx +: 3]: %s", hir.Format(out))
	}

	tests := []struct {
		in   string
		op   string
		left int64
	}{
		{"asc[idx +: 2]", "-", 6},
		{"asc[idx -: 2]", "-", 7},
	}
	for _, tt := range tests {
		out := f.ok(t, tt.in, elab.NoWidth)
		off := out.Data.(hir.SelectData).Offset
		b, ok := off.Data.(hir.BinaryData)
		if !ok || b.Op.String() != tt.op {
			t.Errorf("%q: offset %s", tt.in, hir.Format(off))
			continue
		}
		if n, _ := constValue(t, b.Left).Int64(); n != tt.left {
			t.Errorf("%q: constant %d, want %d", tt.in, n, tt.left)
		}
	}

	out = f.ok(t, "w[idx -: 2]", elab.NoWidth)
	b := out.Data.(hir.SelectData).Offset.Data.(hir.BinaryData)
	// idx is unsigned, so -1 shows up as all ones
	if n, _ := constValue(t, b.Right).Uint64(); b.Op.String() != "+" || n != 0xffffffff {
		t.Fatalf("w[idx -: 2] offset %s", hir.Format(out))
	}

	f.fails(t, "w[idx +: 0]", diag.ElabNonConstantSelect)
	f.fails(t, "w[1 +: idx]", diag.ElabNonConstantSelect)
}

func TestBitSelect(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())

	for _, in := range []string{"w[15]", "w[-1]", "w[1'bx]", "asc[8]"} {
		r := f.run(t, f.top, in, elab.NoWidth, false)
		if r.cnt.Errors() != 0 || !r.has(diag.ElabOutOfRangeSelect) {
			t.Errorf("%q: %v", in, r.bag.Items())
			continue
		}
		if v := constValue(t, r.out); v.Len() != 1 || v.Bit(0) != vnum.BX {
			t.Errorf("%q = %s, want 1'bx", in, v)
		}
	}

	out := f.ok(t, "w[3]", elab.NoWidth)
	if n, _ := constValue(t, out.Data.(hir.SelectData).Offset).Int64(); n != 3 || out.Width != 1 {
		t.Fatalf("w[3]: %s", hir.Format(out))
	}
	out = f.ok(t, "asc[1]", elab.NoWidth)
	if n, _ := constValue(t, out.Data.(hir.SelectData).Offset).Int64(); n != 6 {
		t.Fatalf("asc[1]: %s", hir.Format(out))
	}
	if out := f.ok(t, "b1[0]", elab.NoWidth); out.Kind != hir.ExprSignal {
		t.Fatalf("one-bit target should be returned as is, got %s", hir.Format(out))
	}

	out = f.ok(t, "w[idx]", elab.NoWidth)
	if off := out.Data.(hir.SelectData).Offset; off.Kind != hir.ExprSignal {
		t.Fatalf("w[idx] offset %s", hir.Format(off))
	}
	out = f.ok(t, "asc[idx]", elab.NoWidth)
	if off := out.Data.(hir.SelectData).Offset; off.Kind != hir.ExprBinary {
		t.Fatalf("asc[idx] offset %s", hir.Format(off))
	}
}

func TestParamSelects(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())

	tests := []struct {
		in   string
		want uint64
	}{
		{"P[3:0]", 0x5},
		{"P[7]", 1},
		{"P[6]", 0},
		{"P[2 +: 3]", 0x1},
		{"P[7 -: 4]", 0xa},
		{"PR[11:8]", 0x5},
		{"PR[15]", 1},
		{"U[2:0]", 0x5},
		{"U[40:33]", 0},
		{"UN[40:33]", 0xff},
	}
	for _, tt := range tests {
		v := constValue(t, f.ok(t, tt.in, elab.NoWidth))
		if n, ok := v.Uint64(); !ok || n != tt.want {
			t.Errorf("%q = %s, want %#x", tt.in, v, tt.want)
		}
	}

	v := constValue(t, f.ok(t, "P[9:6]", elab.NoWidth))
	if v.Bit(0) != vnum.B0 || v.Bit(1) != vnum.B1 || v.Bit(2) != vnum.BX || v.Bit(3) != vnum.BX {
		t.Fatalf("P[9:6] = %s, want 4'bxx10", v)
	}
	if v := constValue(t, f.ok(t, "P[-1:-2]", elab.NoWidth)); v.IsDefined() {
		t.Fatalf("bits below a parameter are X, got %s", v)
	}

	v = constValue(t, f.ok(t, "S[15:8]", elab.NoWidth))
	if !v.IsString() || v.Text() != "A" {
		t.Fatalf("S[15:8] = %s, want \"A\"", v)
	}
	v = constValue(t, f.ok(t, "S[23:16]", elab.NoWidth))
	if !v.IsZero() {
		t.Fatalf("bits above a string pad with zero, got %s", v)
	}
	if v := constValue(t, f.ok(t, "S[11:4]", elab.NoWidth)); v.IsString() {
		t.Fatalf("unaligned string select stays a vector")
	}

	out := f.ok(t, "P[idx]", elab.NoWidth)
	d, ok := out.Data.(hir.SelectData)
	if !ok || d.Base.Kind != hir.ExprConstParam || out.Width != 1 {
		t.Fatalf("P[idx]: %s", hir.Format(out))
	}
	out = f.ok(t, "P[idx +: 2]", elab.NoWidth)
	if d, ok := out.Data.(hir.SelectData); !ok || d.Base.Kind != hir.ExprConstParam || out.Width != 2 {
		t.Fatalf("P[idx +: 2]: %s", hir.Format(out))
	}

	f.fails(t, "PR[8:11]", diag.ElabOutOfOrderRange)
	f.fails(t, "P[idx:0]", diag.ElabNonConstantSelect)
}

func TestExtremeSelectBounds(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())
	for _, in := range []string{
		"w[64'sh7fffffffffffffff:64'sh8000000000000000]",
		"w[33'd3000000000:0]",
		"w[20000000:0]",
		"w[0 +: 32'hFFFFFFFF]",
		"w[idx +: 32'hFFFFFFFF]",
		"w[64'sh7fffffffffffffff +: 2]",
		"w[64'sh8000000000000000 -: 2]",
		"P[64'sh7fffffffffffffff:0]",
	} {
		f.fails(t, in, diag.ElabSelectTooWide)
	}

	// a single bit far outside the range is still just X
	r := f.run(t, f.top, "w[64'sh7fffffffffffffff]", elab.NoWidth, false)
	if r.cnt.Errors() != 0 || !r.has(diag.ElabOutOfRangeSelect) {
		t.Fatalf("huge bit select: %v", r.bag.Items())
	}
	if v := constValue(t, r.out); v.Len() != 1 || v.Bit(0) != vnum.BX {
		t.Fatalf("huge bit select = %s, want 1'bx", v)
	}
	if v := constValue(t, f.ok(t, "P[64'sh8000000000000000]", elab.NoWidth)); v.Bit(0) != vnum.BX {
		t.Fatalf("huge param bit select = %s, want 1'bx", v)
	}
}
