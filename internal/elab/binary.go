package elab

import (
	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/vnum"
)

// maxFoldShift bounds the growth of an unsized constant shifted left.
const maxFoldShift = 1 << 16

func (l *lowerer) lowerBinary(id ast.ExprID, node *ast.Expr, width int) *hir.Expr {
	data, _ := l.exprs.Binary(id)
	lp := l.lower(data.Left, width, false)
	rightWidth := width
	if data.Op.IsShift() {
		// the shift amount is always self-determined
		rightWidth = SelfWidth
	}
	rp := l.lower(data.Right, rightWidth, false)
	if lp == nil || rp == nil {
		return nil
	}
	if !data.Op.IsShift() && data.Op != ast.OpLogAnd && data.Op != ast.OpLogOr {
		lp, rp = coupleSigns(lp, rp)
	}
	return l.binaryBase(data.Op, Fold(lp), Fold(rp), width, node.Span)
}

// lowerCompare elaborates both operands at the wider of their
// self-determined widths; the context width does not reach them.
func (l *lowerer) lowerCompare(id ast.ExprID, node *ast.Expr) *hir.Expr {
	data, _ := l.exprs.Binary(id)
	unsized := false
	lw := l.testWidth(data.Left, 0, 0, &unsized)
	saved := unsized
	rw := l.testWidth(data.Right, 0, 0, &unsized)
	if saved != unsized {
		lw = l.testWidth(data.Left, 0, 0, &unsized)
	}
	use := max(lw, rw)
	lp := l.lower(data.Left, use, false)
	rp := l.lower(data.Right, use, false)
	if lp == nil || rp == nil {
		return nil
	}
	lp, rp = coupleSigns(lp, rp)
	return l.binaryBase(data.Op, Fold(lp), Fold(rp), use, node.Span)
}

// coupleSigns makes both vector operands unsigned when either is.
func coupleSigns(lp, rp *hir.Expr) (*hir.Expr, *hir.Expr) {
	if !lp.HasWidth() || !rp.HasWidth() {
		return lp, rp
	}
	if !lp.Signed && rp.Signed {
		rp = rp.WithSigned(false)
	}
	if !rp.Signed && lp.Signed {
		lp = lp.WithSigned(false)
	}
	return lp, rp
}

func (l *lowerer) binaryBase(op ast.BinaryOp, lp, rp *hir.Expr, width int, span source.Span) *hir.Expr {
	class := hir.ClassOf(op)
	switch class {
	case hir.BinaryLogic:
		lp, rp = l.conditionReduce(lp), l.conditionReduce(rp)
	case hir.BinaryDiv:
		if op == ast.OpMod && !l.opts.IcarusMisc &&
			(lp.Domain == vnum.DomainReal || rp.Domain == vnum.DomainReal) {
			l.errorf(diag.ElabRealOperand, span, "modulus operator may not have real operands")
			return nil
		}
	case hir.BinaryShift:
		if op == ast.OpShl || op == ast.OpAShl {
			if folded, ok := l.foldShiftLeft(lp, rp, width, span); ok {
				return folded
			}
			lp = l.widenUnsizedLeft(lp)
		}
	case hir.BinaryCompare:
		if op == ast.OpCaseEq || op == ast.OpCaseNe {
			if lp.Domain == vnum.DomainReal || rp.Domain == vnum.DomainReal {
				l.errorf(diag.ElabDomainMismatch, span, "%s may not have real operands", op)
				return nil
			}
		}
		if op == ast.OpEq || op == ast.OpNe || op == ast.OpCaseEq || op == ast.OpCaseNe {
			if rp.IsConst() && lp.Width > rp.Width {
				rp = hir.PadToWidth(rp, lp.Width, rp.Span)
			}
			if lp.IsConst() && lp.Width < rp.Width {
				lp = hir.PadToWidth(lp, rp.Width, lp.Span)
			}
		}
	}
	out := newBinary(op, class, lp, rp, width)
	out.Span = span
	if (class == hir.BinaryCompare || class == hir.BinaryLogic) && out.Width != 1 {
		diag.ReportError(l.rep, diag.ElabInternalConsistency, span, "comparison result is not one bit wide").
			WithNote(span, "internal consistency").Emit()
		return nil
	}
	return out
}

// newBinary computes the width, sign and domain of a binary node from
// its class.
func newBinary(op ast.BinaryOp, class hir.BinaryClass, lp, rp *hir.Expr, width int) *hir.Expr {
	dom := domainOf(lp, rp)
	signed := lp.Signed && rp.Signed
	w := max(lp.Width, rp.Width)
	lossless := false
	switch class {
	case hir.BinaryAdd:
		if width == LosslessWidth {
			lossless = true
			w++
		}
		if width > 0 && dom.IsVector() {
			w = uint32(width) //nolint:gosec // G115: width > 0 checked
		}
	case hir.BinaryPow:
		w = lp.Width
	case hir.BinaryShift:
		w = lp.Width
		signed = lp.Signed
		if lp.Domain == vnum.DomainBool && rp.Domain == vnum.DomainBool {
			dom = vnum.DomainBool
		} else {
			dom = vnum.DomainLogic
		}
	case hir.BinaryCompare, hir.BinaryLogic:
		w = 1
		signed = false
		if dom == vnum.DomainReal {
			dom = vnum.DomainLogic
		}
	}
	if dom == vnum.DomainReal {
		signed = true
	}
	return &hir.Expr{
		Kind:   hir.ExprBinary,
		Width:  w,
		Signed: signed,
		Domain: dom,
		Data:   hir.BinaryData{Op: op, Class: class, Left: lp, Right: rp, Lossless: lossless},
	}
}

// foldShiftLeft precomputes a << b when both operands are constant. The
// result keeps the left operand's length when that operand is sized or
// a context width was requested.
func (l *lowerer) foldShiftLeft(lp, rp *hir.Expr, width int, span source.Span) (*hir.Expr, bool) {
	lv, lok := lp.AsConst()
	rv, rok := rp.AsConst()
	if !lok || !rok {
		return nil, false
	}
	if !rv.IsDefined() {
		return hir.NewConst(vnum.ShiftX(lv), span), true
	}
	n, ok := rv.Uint64()
	if !ok || (n > maxFoldShift && !lv.Sized()) {
		return nil, false
	}
	if n > uint64(lv.Len()) && lv.Sized() {
		n = uint64(lv.Len())
	}
	res := vnum.Shl(lv, int(n)) //nolint:gosec // G115: bounded above
	if lv.Sized() || width > 0 {
		res = res.Resize(lv.Len())
	}
	return hir.NewConst(res, span), true
}

// widenUnsizedLeft widens a short unsized constant to the integer width
// so that a shift by a run-time amount does not drop bits.
func (l *lowerer) widenUnsizedLeft(lp *hir.Expr) *hir.Expr {
	v, ok := lp.AsConst()
	if !ok || v.Sized() || v.Len() >= l.opts.IntegerWidth {
		return lp
	}
	return hir.NewConst(v.Extend(l.opts.IntegerWidth), lp.Span)
}

// conditionReduce turns a multi-bit or real operand into a one-bit
// truth value by comparing it against zero.
func (l *lowerer) conditionReduce(e *hir.Expr) *hir.Expr {
	if e.Domain != vnum.DomainReal && e.Width == 1 {
		return e
	}
	var zero *hir.Expr
	if e.Domain == vnum.DomainReal {
		zero = hir.NewConstReal(0, e.Span)
	} else {
		zero = hir.NewConst(vnum.Uint(0, int(e.Width)).WithSigned(e.Signed), e.Span)
	}
	out := newBinary(ast.OpNe, hir.BinaryCompare, e, zero, NoWidth)
	out.Span = e.Span
	return Fold(out)
}
