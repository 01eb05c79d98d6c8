package vnum_test

import (
	"testing"

	"verilab/internal/vnum"
)

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		text   string
		width  int
		sized  bool
		signed bool
		bits   string
	}{
		{"8'd3", 8, true, false, "00000011"},
		{"4'b10x1", 4, true, false, "10x1"},
		{"4'sb1101", 4, true, true, "1101"},
		{"6'hz", 6, true, false, "zzzzzz"},
		{"3'b1", 3, true, false, "001"},
		{"2'hf", 2, true, false, "11"},
		{"12'o7_7", 12, true, false, "000000111111"},
		{"8'dx", 8, true, false, "xxxxxxxx"},
		{"'hff", 32, false, false, "00000000000000000000000011111111"},
		{"23", 32, false, true, "00000000000000000000000000010111"},
	}
	for _, tt := range tests {
		v, err := vnum.Parse(tt.text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.text, err)
		}
		if v.Len() != tt.width || v.Sized() != tt.sized || v.Signed() != tt.signed {
			t.Errorf("Parse(%q) = len %d sized %v signed %v", tt.text, v.Len(), v.Sized(), v.Signed())
		}
		if got := v.BinaryString(); got != tt.bits {
			t.Errorf("Parse(%q) bits = %s, want %s", tt.text, got, tt.bits)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{"", "0'd1", "4'q1", "4'b102", "8'd", "12ab"} {
		if _, err := vnum.Parse(text); err == nil {
			t.Errorf("Parse(%q) succeeded", text)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := vnum.MustParse("4'd9")
	b := vnum.MustParse("4'd8")
	if got := vnum.Add(a, b).BinaryString(); got != "0001" {
		t.Errorf("9+8 in 4 bits = %s", got)
	}
	if got := vnum.Sub(b, a).BinaryString(); got != "1111" {
		t.Errorf("8-9 in 4 bits = %s", got)
	}
	if got := vnum.Mul(vnum.MustParse("8'd12"), vnum.MustParse("8'd11")); got.String() != "8'd132" {
		t.Errorf("12*11 = %s", got)
	}
	if got := vnum.Div(vnum.MustParse("8'd100"), vnum.MustParse("8'd7")); got.String() != "8'd14" {
		t.Errorf("100/7 = %s", got)
	}
	if got := vnum.Mod(vnum.MustParse("8'd100"), vnum.MustParse("8'd7")); got.String() != "8'd2" {
		t.Errorf("100%%7 = %s", got)
	}
	if got := vnum.Div(a, vnum.MustParse("4'd0")).BinaryString(); got != "xxxx" {
		t.Errorf("divide by zero = %s", got)
	}
	if got := vnum.Add(a, vnum.MustParse("4'b000x")).BinaryString(); got != "xxxx" {
		t.Errorf("x operand = %s", got)
	}
	if got := vnum.Pow(vnum.MustParse("8'd3"), vnum.MustParse("8'd4")); got.String() != "8'd81" {
		t.Errorf("3**4 = %s", got)
	}
	n := vnum.Div(vnum.Int(-7, 32), vnum.Int(2, 32))
	if v, ok := n.Int64(); !ok || v != -3 {
		t.Errorf("-7/2 = %d (%v)", v, ok)
	}
}

func TestSignedExtension(t *testing.T) {
	neg := vnum.MustParse("4'sb1100")
	if got := neg.Extend(8).BinaryString(); got != "11111100" {
		t.Errorf("signed extend = %s", got)
	}
	if got := neg.WithSigned(false).Extend(8).BinaryString(); got != "00001100" {
		t.Errorf("unsigned extend = %s", got)
	}
	if got := vnum.MustParse("4'bx001").Extend(6).BinaryString(); got != "xxx001" {
		t.Errorf("x extend = %s", got)
	}
	if got := neg.Resize(2).BinaryString(); got != "00" {
		t.Errorf("truncate = %s", got)
	}
	if v, ok := neg.Int64(); !ok || v != -4 {
		t.Errorf("Int64 = %d", v)
	}
}

func TestNegWidens(t *testing.T) {
	three := vnum.MustParse("4'd3")
	wide := three.Resize(5)
	got := vnum.Sub(vnum.Uint(0, 5), wide)
	if got.BinaryString() != "11101" {
		t.Fatalf("-(3) in 5 bits = %s", got.BinaryString())
	}
	if vnum.Neg(wide).BinaryString() != "11101" {
		t.Fatalf("Neg mismatch")
	}
}

func TestShifts(t *testing.T) {
	sized := vnum.MustParse("4'b0110")
	if got := vnum.Shl(sized, 2).BinaryString(); got != "1000" {
		t.Errorf("sized shl = %s", got)
	}
	unsized := vnum.MustParse("'b11")
	if got := vnum.Shl(unsized, 3); got.Len() != 35 || got.Sized() {
		t.Errorf("unsized shl len = %d sized=%v", got.Len(), got.Sized())
	}
	if got := vnum.Shr(vnum.MustParse("4'sb1000"), 2, true).BinaryString(); got != "1110" {
		t.Errorf("ashr = %s", got)
	}
	if got := vnum.Shr(vnum.MustParse("4'sb1000"), 2, false).BinaryString(); got != "0010" {
		t.Errorf("lshr = %s", got)
	}
}

func TestCompareAndLogic(t *testing.T) {
	if vnum.Eq(vnum.MustParse("4'd3"), vnum.MustParse("8'd3")) != vnum.B1 {
		t.Errorf("3 == 3")
	}
	if vnum.Eq(vnum.MustParse("4'b1x00"), vnum.MustParse("4'b1x00")) != vnum.BX {
		t.Errorf("== with x must be x")
	}
	if !vnum.CaseEq(vnum.MustParse("4'b1x00"), vnum.MustParse("4'b1x00")) {
		t.Errorf("=== with x must match")
	}
	if vnum.Less(vnum.MustParse("4'sb1111"), vnum.MustParse("4'sb0001")) != vnum.B1 {
		t.Errorf("-1 < 1 signed")
	}
	if vnum.Less(vnum.MustParse("4'b1111"), vnum.MustParse("4'b0001")) != vnum.B0 {
		t.Errorf("15 < 1 unsigned")
	}
	if vnum.LogicalNot(vnum.MustParse("4'b00x0")) != vnum.BX {
		t.Errorf("!x")
	}
	if vnum.LogicalNot(vnum.MustParse("4'b0010")) != vnum.B0 {
		t.Errorf("!2")
	}
	if vnum.ReduceAnd(vnum.MustParse("3'b111")) != vnum.B1 || vnum.ReduceXor(vnum.MustParse("3'b110")) != vnum.B0 {
		t.Errorf("reductions")
	}
	if got := vnum.And(vnum.MustParse("4'b10x1"), vnum.MustParse("4'b0011")).BinaryString(); got != "00x1" {
		t.Errorf("and = %s", got)
	}
}

func TestStringsAndSlices(t *testing.T) {
	s := vnum.String("AB")
	if s.Len() != 16 || !s.IsString() || s.Text() != "AB" {
		t.Fatalf("string value = %v", s)
	}
	if got := s.String(); got != `"AB"` {
		t.Errorf("String() = %s", got)
	}
	v := vnum.MustParse("8'b10110100")
	if got := v.Slice(2, 4).BinaryString(); got != "1101" {
		t.Errorf("slice = %s", got)
	}
	if got := v.Slice(6, 4).BinaryString(); got != "xx10" {
		t.Errorf("slice past end = %s", got)
	}
	c := vnum.Concat(vnum.MustParse("2'b10"), vnum.MustParse("3'b011"))
	if got := c.BinaryString(); got != "10011" {
		t.Errorf("concat = %s", got)
	}
	if got := vnum.Repeat(vnum.MustParse("2'b10"), 3).BinaryString(); got != "101010" {
		t.Errorf("repeat = %s", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    vnum.Value
		want string
	}{
		{vnum.MustParse("8'd3"), "8'd3"},
		{vnum.MustParse("23"), "23"},
		{vnum.Int(-5, 32), "-5"},
		{vnum.MustParse("4'sb1101"), "-4'sd3"},
		{vnum.MustParse("4'b1x01"), "4'b1x01"},
		{vnum.MustParse("'hff"), "'d255"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
