package elab

import (
	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
)

// zeroWidthDepth is the deepest nesting at which an empty concatenation
// or a zero repeat is still an error.
const zeroWidthDepth = 2

func (l *lowerer) lowerConcat(id ast.ExprID, node *ast.Expr) *hir.Expr {
	l.depth++
	defer func() { l.depth-- }()

	data, _ := l.exprs.Concat(id)
	repeat := uint32(1)
	if data.Repeat.IsValid() {
		n, ok := l.repeatCount(data.Repeat)
		if !ok {
			return nil
		}
		repeat = n
	}

	failed := false
	parts := make([]*hir.Expr, 0, len(data.Parts))
	for i, pid := range data.Parts {
		if !pid.IsValid() {
			l.errorf(diag.ElabMissingConcatElement, node.Span, "missing expression %d of concatenation list", i+1)
			failed = true
			continue
		}
		ex := l.lowerEval(pid, SelfWidth)
		if ex == nil {
			failed = true
			continue
		}
		if !definiteWidth(ex) {
			l.errorf(diag.ElabIndefiniteWidth, ex.Span, "operand of concatenation has indefinite width: %s", hir.Format(ex))
			failed = true
			continue
		}
		parts = append(parts, ex)
	}
	if failed {
		return nil
	}
	out := hir.NewConcat(parts, repeat, node.Span)
	if out.Width == 0 && l.depth <= zeroWidthDepth {
		l.errorf(diag.ElabZeroWidthConcat, node.Span, "concatenation may not have zero width in this context")
		return nil
	}
	return out
}

func (l *lowerer) repeatCount(id ast.ExprID) (uint32, bool) {
	span := l.spanOf(id)
	rep := l.lowerEval(id, SelfWidth)
	if rep == nil {
		return 0, false
	}
	v, ok := rep.AsConst()
	if !ok {
		l.errorf(diag.ElabUndefinedRepeat, span, "concatenation repeat expression cannot be evaluated: %s", hir.Format(rep))
		return 0, false
	}
	if !v.IsDefined() {
		l.errorf(diag.ElabUndefinedRepeat, span, "concatenation repeat may not be undefined (%s)", v)
		return 0, false
	}
	if v.IsNegative() {
		l.errorf(diag.ElabNegativeRepeat, span, "concatenation repeat may not be negative (%s)", v)
		return 0, false
	}
	if v.IsZero() && l.depth <= zeroWidthDepth {
		l.errorf(diag.ElabZeroRepeat, span, "concatenation repeat may not be zero in this context")
		return 0, false
	}
	n, ok := v.Uint64()
	if !ok {
		l.errorf(diag.ElabUndefinedRepeat, span, "concatenation repeat %s is too large", v)
		return 0, false
	}
	count, ok := toWidth(int64(n)) //nolint:gosec // G115: range checked by toWidth
	if !ok {
		l.errorf(diag.ElabUndefinedRepeat, span, "concatenation repeat %s is too large", v)
		return 0, false
	}
	return count, true
}
