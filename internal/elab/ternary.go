package elab

import (
	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/vnum"
)

// ternaryCompatible: bool and logic mix freely, real mixes with either,
// and any domain matches itself.
func ternaryCompatible(a, b vnum.Domain) bool {
	switch {
	case a == b:
		return true
	case a.IsVector() && b.IsVector():
		return true
	case a == vnum.DomainReal && b.IsVector(), b == vnum.DomainReal && a.IsVector():
		return true
	}
	return false
}

func (l *lowerer) lowerTernary(id ast.ExprID, node *ast.Expr, width int) *hir.Expr {
	data, _ := l.exprs.Ternary(id)
	if width <= 0 {
		unsized := false
		tw := l.testWidth(data.True, 0, 0, &unsized)
		fw := l.testWidth(data.False, 0, 0, &unsized)
		width = max(tw, fw)
	}
	cond := l.lower(data.Cond, SelfWidth, false)
	if cond == nil {
		return nil
	}
	tru := l.lower(data.True, width, false)
	if tru == nil {
		return nil
	}
	fal := l.lower(data.False, width, false)
	if fal == nil {
		return nil
	}
	if !ternaryCompatible(tru.Domain, fal.Domain) {
		l.errorf(diag.ElabDomainMismatch, node.Span, "data types %s and %s of ternary do not match", tru.Domain, fal.Domain)
		return nil
	}
	// both value operands end up with the same width
	w := max(uint32(width), tru.Width, fal.Width) //nolint:gosec // G115: width > 0 here
	if tru.HasWidth() && fal.HasWidth() {
		tru = hir.PadToWidth(tru, w, tru.Span)
		fal = hir.PadToWidth(fal, w, fal.Span)
	}
	dom := domainOf(tru, fal)
	if tru.Domain == vnum.DomainString && fal.Domain == vnum.DomainString {
		dom = vnum.DomainString
	}
	out := &hir.Expr{
		Kind:   hir.ExprTernary,
		Width:  w,
		Signed: tru.Signed && fal.Signed,
		Domain: dom,
		Span:   node.Span,
		Data:   hir.TernaryData{Cond: cond, True: tru, False: fal},
	}
	if dom == vnum.DomainReal {
		out.Width, out.Signed = 1, true
	}
	return out
}
