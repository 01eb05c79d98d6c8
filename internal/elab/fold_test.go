package elab_test

import (
	"testing"

	"verilab/internal/elab"
	"verilab/internal/hir"
	"verilab/internal/testkit"
)

func TestFoldConstantOperators(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"8'd200 + 8'd100", elab.NoWidth, "00101100"},
		{"8'd200 + 8'd100", 16, "0000000100101100"},
		{"8'd3 - 8'd5", elab.NoWidth, "11111110"},
		{"4'd2 ** 4'd3", elab.NoWidth, "1000"},
		{"8'd7 / 8'd0", elab.NoWidth, "xxxxxxxx"},
		{"4'b1x01 | 4'b0100", elab.NoWidth, "1101"},
		{"4'b1x01 & 4'b0100", elab.NoWidth, "0x00"},
		{"8'b10000000 >> 3", elab.NoWidth, "00010000"},
		{"8'sb10000000 >>> 2", elab.NoWidth, "11100000"},
		{"8'd5 < 8'd7", elab.NoWidth, "1"},
		{"4'b10x1 == 4'b1001", elab.NoWidth, "x"},
		{"4'b10x1 === 4'b10x1", elab.NoWidth, "1"},
		{"1'b0 && 4'bx", elab.NoWidth, "0"},
		{"~4'b0101", elab.NoWidth, "1010"},
		{"&4'b1111", elab.NoWidth, "1"},
		{"^4'b0111", elab.NoWidth, "1"},
		{"{2'b10, 2'b01}", elab.NoWidth, "1001"},
		{"{2{2'b10}}", elab.NoWidth, "1010"},
		{"4'd3 ? 4'd1 : 4'd2", elab.NoWidth, "0001"},
		{"1'bx ? 4'b1100 : 4'b1010", elab.NoWidth, "1xx0"},
	}
	for _, tt := range tests {
		e := f.ok(t, tt.in, tt.width)
		folded := elab.Fold(e)
		v := constValue(t, folded)
		if got := v.BinaryString(); got != tt.want {
			t.Errorf("fold %q = %s, want %s", tt.in, got, tt.want)
		}
		if folded.Width != e.Width {
			t.Errorf("fold %q changed width %d -> %d", tt.in, e.Width, folded.Width)
		}
		if err := testkit.CheckTreeInvariants(folded); err != nil {
			t.Errorf("fold %q: %v", tt.in, err)
		}
	}
}

func TestFoldReal(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())
	folded := elab.Fold(f.ok(t, "2.5 + 1.5", elab.NoWidth))
	if r, ok := folded.AsReal(); !ok || r != 4 {
		t.Fatalf("2.5 + 1.5 folded to %s", hir.Format(folded))
	}
	cmp := elab.Fold(f.ok(t, "1.5 < 2", elab.NoWidth))
	if v := constValue(t, cmp); v.BinaryString() != "1" {
		t.Errorf("1.5 < 2 = %s", v.BinaryString())
	}
}

func TestFoldLeavesRuntimeNodes(t *testing.T) {
	f := newFixture(t, elab.DefaultOptions())
	e := f.ok(t, "w + 8'd1", elab.NoWidth)
	if got := elab.Fold(e); got != e {
		t.Errorf("runtime add was rewritten: %s", hir.Format(got))
	}
	// the constant operand folds, the signal stays
	mixed := elab.Fold(f.ok(t, "w & (4'd1 + 4'd2)", elab.NoWidth))
	if mixed.Kind != hir.ExprBinary {
		t.Fatalf("w & (...) folded to %s", mixed.Kind)
	}
	d := mixed.Data.(hir.BinaryData)
	if !d.Right.IsConst() {
		t.Errorf("constant operand not folded: %s", hir.Format(d.Right))
	}
}
