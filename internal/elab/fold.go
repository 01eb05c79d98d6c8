package elab

import (
	"math"

	"verilab/internal/ast"
	"verilab/internal/hir"
	"verilab/internal/vnum"
)

// Fold evaluates constant subtrees. Folded nodes keep the width and
// signedness the elaborator gave them.
func Fold(e *hir.Expr) *hir.Expr {
	return hir.Walk(e, foldNode)
}

func foldNode(e *hir.Expr) *hir.Expr {
	switch d := e.Data.(type) {
	case hir.SelectData:
		return foldSelect(e, d)
	case hir.ConcatData:
		return foldConcat(e, d)
	case hir.UnaryData:
		return foldUnary(e, d)
	case hir.BinaryData:
		return foldBinary(e, d)
	case hir.TernaryData:
		return foldTernary(e, d)
	}
	return e
}

func foldSelect(e *hir.Expr, d hir.SelectData) *hir.Expr {
	v, ok := d.Base.AsConst()
	if !ok {
		return e
	}
	w := int(e.Width)
	if d.Offset == nil {
		return hir.NewConst(v.WithSigned(e.Signed).Extend(w).WithSigned(e.Signed), e.Span)
	}
	off, ok := d.Offset.AsConst()
	if !ok {
		return e
	}
	n, defined := off.Int64()
	if !defined || n > math.MaxInt32 || n < math.MinInt32 {
		return hir.NewConst(vnum.Fill(vnum.BX, w), e.Span)
	}
	return hir.NewConst(v.Slice(int(n), w), e.Span)
}

func foldConcat(e *hir.Expr, d hir.ConcatData) *hir.Expr {
	vals := make([]vnum.Value, len(d.Parts))
	for i, p := range d.Parts {
		v, ok := p.AsConst()
		if !ok {
			return e
		}
		vals[i] = v
	}
	return hir.NewConst(vnum.Repeat(vnum.Concat(vals...), int(d.Repeat)), e.Span)
}

func foldUnary(e *hir.Expr, d hir.UnaryData) *hir.Expr {
	if f, ok := d.Operand.AsReal(); ok {
		switch d.Op {
		case ast.UnMinus:
			return hir.NewConstReal(-f, e.Span)
		case ast.UnPlus:
			return d.Operand
		case ast.UnLogNot:
			return hir.NewConst(vnum.FromBit(boolBit(f == 0)), e.Span)
		}
		return e
	}
	v, ok := d.Operand.AsConst()
	if !ok {
		return e
	}
	w := int(e.Width)
	var out vnum.Value
	switch d.Op {
	case ast.UnPlus:
		out = v.Extend(w)
	case ast.UnMinus:
		out = vnum.Neg(v.Extend(w)).Resize(w)
	case ast.UnBitNot:
		out = vnum.Not(v.Extend(w))
	case ast.UnLogNot:
		out = vnum.FromBit(vnum.LogicalNot(v))
	case ast.UnRedAnd:
		out = vnum.FromBit(vnum.ReduceAnd(v))
	case ast.UnRedOr:
		out = vnum.FromBit(vnum.ReduceOr(v))
	case ast.UnRedXor:
		out = vnum.FromBit(vnum.ReduceXor(v))
	case ast.UnRedNand:
		out = vnum.FromBit(notBit(vnum.ReduceAnd(v)))
	case ast.UnRedNor:
		out = vnum.FromBit(notBit(vnum.ReduceOr(v)))
	case ast.UnRedXnor:
		out = vnum.FromBit(notBit(vnum.ReduceXor(v)))
	default:
		return e
	}
	if d.Class != hir.UnaryReduce && d.Op != ast.UnLogNot {
		out = out.WithSigned(e.Signed)
	}
	return hir.NewConst(out, e.Span)
}

func notBit(b vnum.Bit) vnum.Bit {
	return vnum.Not(vnum.FromBit(b)).Bit(0)
}

func boolBit(b bool) vnum.Bit {
	if b {
		return vnum.B1
	}
	return vnum.B0
}

func foldBinary(e *hir.Expr, d hir.BinaryData) *hir.Expr {
	if d.Left.Domain == vnum.DomainReal || d.Right.Domain == vnum.DomainReal {
		return foldRealBinary(e, d)
	}
	lv, lok := d.Left.AsConst()
	rv, rok := d.Right.AsConst()
	if !lok || !rok {
		return e
	}
	w := int(e.Width)
	sized := lv.Sized() || rv.Sized()

	switch d.Class {
	case hir.BinaryCompare:
		return hir.NewConst(vnum.FromBit(compareBits(d.Op, lv, rv)), e.Span)
	case hir.BinaryLogic:
		return hir.NewConst(vnum.FromBit(logicBits(d.Op, vnum.Truth(lv), vnum.Truth(rv))), e.Span)
	case hir.BinaryShift:
		out := foldShift(d.Op, lv.Resize(w).WithSigned(e.Signed), rv)
		return hir.NewConst(out.WithSized(lv.Sized()), e.Span)
	case hir.BinaryPow:
		out := vnum.Pow(lv.Extend(w), rv)
		return hir.NewConst(out.Resize(w).WithSized(sized).WithSigned(e.Signed), e.Span)
	}

	x, y := lv.Extend(w), rv.Extend(w)
	var out vnum.Value
	switch d.Op {
	case ast.OpAdd:
		out = vnum.Add(x, y)
	case ast.OpSub:
		out = vnum.Sub(x, y)
	case ast.OpMul:
		out = vnum.Mul(x, y)
	case ast.OpDiv:
		out = vnum.Div(x, y)
	case ast.OpMod:
		out = vnum.Mod(x, y)
	case ast.OpBitAnd:
		out = vnum.And(x, y)
	case ast.OpBitOr:
		out = vnum.Or(x, y)
	case ast.OpBitXor:
		out = vnum.Xor(x, y)
	case ast.OpBitXnor:
		out = vnum.Xnor(x, y)
	case ast.OpBitNand:
		out = vnum.Nand(x, y)
	case ast.OpBitNor:
		out = vnum.Nor(x, y)
	case ast.OpMin, ast.OpMax:
		c, ok := vnum.Cmp(x, y)
		switch {
		case !ok:
			out = vnum.Fill(vnum.BX, w)
		case (c <= 0) == (d.Op == ast.OpMin):
			out = x
		default:
			out = y
		}
	default:
		return e
	}
	return hir.NewConst(out.Resize(w).WithSized(sized).WithSigned(e.Signed), e.Span)
}

// foldShift shifts a value already at the node width. Amounts past the
// width shift everything out.
func foldShift(op ast.BinaryOp, lv, rv vnum.Value) vnum.Value {
	if !rv.IsDefined() {
		return vnum.ShiftX(lv)
	}
	w := lv.Len()
	n, ok := rv.Uint64()
	if !ok || n > uint64(w) {
		n = uint64(w)
	}
	if op == ast.OpShl || op == ast.OpAShl {
		return vnum.Shl(lv, int(n)) //nolint:gosec // G115: n <= width
	}
	return vnum.Shr(lv, int(n), op == ast.OpAShr) //nolint:gosec // G115: n <= width
}

func compareBits(op ast.BinaryOp, lv, rv vnum.Value) vnum.Bit {
	switch op {
	case ast.OpEq:
		return vnum.Eq(lv, rv)
	case ast.OpNe:
		return notBit(vnum.Eq(lv, rv))
	case ast.OpCaseEq:
		return boolBit(vnum.CaseEq(lv, rv))
	case ast.OpCaseNe:
		return boolBit(!vnum.CaseEq(lv, rv))
	}
	c, ok := vnum.Cmp(lv, rv)
	if !ok {
		return vnum.BX
	}
	switch op {
	case ast.OpLt:
		return boolBit(c < 0)
	case ast.OpLe:
		return boolBit(c <= 0)
	case ast.OpGt:
		return boolBit(c > 0)
	default:
		return boolBit(c >= 0)
	}
}

func logicBits(op ast.BinaryOp, a, b vnum.Bit) vnum.Bit {
	if op == ast.OpLogAnd {
		switch {
		case a == vnum.B0 || b == vnum.B0:
			return vnum.B0
		case a == vnum.B1 && b == vnum.B1:
			return vnum.B1
		}
		return vnum.BX
	}
	switch {
	case a == vnum.B1 || b == vnum.B1:
		return vnum.B1
	case a == vnum.B0 && b == vnum.B0:
		return vnum.B0
	}
	return vnum.BX
}

// realOperand reads a real constant or converts a defined vector
// constant.
func realOperand(e *hir.Expr) (float64, bool) {
	if f, ok := e.AsReal(); ok {
		return f, true
	}
	if v, ok := e.AsConst(); ok {
		return v.Float64()
	}
	return 0, false
}

func foldRealBinary(e *hir.Expr, d hir.BinaryData) *hir.Expr {
	a, aok := realOperand(d.Left)
	b, bok := realOperand(d.Right)
	if !aok || !bok {
		return e
	}
	var c int
	switch {
	case a < b:
		c = -1
	case a > b:
		c = 1
	}
	switch d.Op {
	case ast.OpAdd:
		return hir.NewConstReal(a+b, e.Span)
	case ast.OpSub:
		return hir.NewConstReal(a-b, e.Span)
	case ast.OpMul:
		return hir.NewConstReal(a*b, e.Span)
	case ast.OpDiv:
		return hir.NewConstReal(a/b, e.Span)
	case ast.OpMod:
		return hir.NewConstReal(math.Mod(a, b), e.Span)
	case ast.OpPow:
		return hir.NewConstReal(math.Pow(a, b), e.Span)
	case ast.OpMin:
		return hir.NewConstReal(math.Min(a, b), e.Span)
	case ast.OpMax:
		return hir.NewConstReal(math.Max(a, b), e.Span)
	case ast.OpLt:
		return hir.NewConst(vnum.FromBit(boolBit(c < 0)), e.Span)
	case ast.OpLe:
		return hir.NewConst(vnum.FromBit(boolBit(c <= 0)), e.Span)
	case ast.OpGt:
		return hir.NewConst(vnum.FromBit(boolBit(c > 0)), e.Span)
	case ast.OpGe:
		return hir.NewConst(vnum.FromBit(boolBit(c >= 0)), e.Span)
	case ast.OpEq:
		return hir.NewConst(vnum.FromBit(boolBit(a == b)), e.Span)
	case ast.OpNe:
		return hir.NewConst(vnum.FromBit(boolBit(a != b)), e.Span)
	case ast.OpLogAnd:
		return hir.NewConst(vnum.FromBit(boolBit(a != 0 && b != 0)), e.Span)
	case ast.OpLogOr:
		return hir.NewConst(vnum.FromBit(boolBit(a != 0 || b != 0)), e.Span)
	}
	return e
}

// foldTernary picks a branch for a defined condition. An X condition
// merges two constant branches bit by bit.
func foldTernary(e *hir.Expr, d hir.TernaryData) *hir.Expr {
	var t vnum.Bit
	switch {
	case d.Cond.Domain == vnum.DomainReal:
		f, ok := d.Cond.AsReal()
		if !ok {
			return e
		}
		t = boolBit(f != 0)
	default:
		v, ok := d.Cond.AsConst()
		if !ok {
			return e
		}
		t = vnum.Truth(v)
	}
	switch t {
	case vnum.B1:
		return branch(e, d.True)
	case vnum.B0:
		return branch(e, d.False)
	}
	tv, tok := d.True.AsConst()
	fv, fok := d.False.AsConst()
	if !tok || !fok {
		return e
	}
	w := int(e.Width)
	tv, fv = tv.Extend(w), fv.Extend(w)
	bits := make([]vnum.Bit, w)
	for i := range bits {
		if tv.Bit(i) == fv.Bit(i) {
			bits[i] = tv.Bit(i)
		} else {
			bits[i] = vnum.BX
		}
	}
	return hir.NewConst(vnum.FromBits(bits, true, e.Signed), e.Span)
}

func branch(e, b *hir.Expr) *hir.Expr {
	if b.HasWidth() && b.Signed != e.Signed {
		return b.WithSigned(e.Signed)
	}
	return b
}
