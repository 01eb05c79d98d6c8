package elab

import (
	"fmt"

	"fortio.org/safecast"

	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/symbols"
	"verilab/internal/trace"
	"verilab/internal/vnum"
)

// lowerer carries the state of one elaboration. depth counts the
// concatenations currently being lowered; every elaboration owns its
// own counter.
type lowerer struct {
	el     *Elaborator
	res    symbols.Resolver
	opts   Options
	exprs  *ast.Exprs
	scope  symbols.ScopeID
	rep    diag.Reporter
	tracer trace.Tracer
	parent uint64
	depth  int
}

// probe returns a silent copy used for constant evaluation inside
// TestWidth. It shares nothing mutable with l.
func (l *lowerer) probe() *lowerer {
	p := *l
	p.rep = diag.NopReporter{}
	p.tracer = trace.Nop
	p.depth = 0
	return &p
}

func (l *lowerer) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(l.rep, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (l *lowerer) warnf(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(l.rep, code, span, fmt.Sprintf(format, args...)).Emit()
}

// lower dispatches on the syntax node kind.
func (l *lowerer) lower(id ast.ExprID, width int, sysTaskArg bool) *hir.Expr {
	node := l.exprs.Get(id)
	if node == nil {
		l.errorf(diag.ElabInternalConsistency, source.Span{}, "expression %d does not exist", id)
		return nil
	}
	var sp *trace.Span
	if l.tracer.Level() >= trace.LevelDebug {
		sp = trace.Begin(l.tracer, trace.ScopeNode, node.Kind.String(), l.parent)
		saved := l.parent
		l.parent = sp.ID()
		defer func() { l.parent = saved }()
	}
	out := l.lowerKind(id, node, width, sysTaskArg)
	if sp != nil {
		sp.End(resultDetail(out))
	}
	return out
}

func (l *lowerer) lowerKind(id ast.ExprID, node *ast.Expr, width int, sysTaskArg bool) *hir.Expr {
	switch node.Kind {
	case ast.ExprNumber:
		return l.lowerNumber(id, node, width)
	case ast.ExprReal:
		data, _ := l.exprs.Real(id)
		return hir.NewConstReal(data.Value, node.Span)
	case ast.ExprString:
		data, _ := l.exprs.StringLit(id)
		return hir.NewConst(stringValue(data.Value), node.Span)
	case ast.ExprIdent:
		data, _ := l.exprs.Ident(id)
		return l.lowerIdent(data.Path, node.Span, width, sysTaskArg)
	case ast.ExprUnary:
		return l.lowerUnary(id, node, width)
	case ast.ExprBinary, ast.ExprShift:
		return l.lowerBinary(id, node, width)
	case ast.ExprCompare:
		return l.lowerCompare(id, node)
	case ast.ExprTernary:
		return l.lowerTernary(id, node, width)
	case ast.ExprConcat:
		return l.lowerConcat(id, node)
	case ast.ExprCall:
		return l.lowerCall(id, node, width)
	}
	l.errorf(diag.ElabInternalConsistency, node.Span, "cannot elaborate %s expression", node.Kind)
	return nil
}

// stringValue: the empty string is a single NUL byte.
func stringValue(s string) vnum.Value {
	if s == "" {
		return vnum.Uint(0, 8).AsString()
	}
	return vnum.String(s)
}

func (l *lowerer) lowerNumber(id ast.ExprID, node *ast.Expr, width int) *hir.Expr {
	data, _ := l.exprs.Number(id)
	v, err := vnum.Parse(data.Text)
	if err != nil {
		l.errorf(diag.SynBadNumber, node.Span, "malformed number %q: %v", data.Text, err)
		return nil
	}
	// a context width pads, never truncates below the literal
	if width > 0 {
		v = v.Extend(width)
	}
	return hir.NewConst(v, node.Span)
}

// lowerEval lowers id and folds the result.
func (l *lowerer) lowerEval(id ast.ExprID, width int) *hir.Expr {
	out := l.lower(id, width, false)
	if out == nil {
		return nil
	}
	return Fold(out)
}

// constInt evaluates id to a defined integer. ok is false when the
// expression failed; isConst is false when it is not a defined constant.
func (l *lowerer) constInt(id ast.ExprID) (n int64, expr *hir.Expr, isConst bool) {
	expr = l.lowerEval(id, SelfWidth)
	if expr == nil {
		return 0, nil, false
	}
	v, ok := expr.AsConst()
	if !ok {
		return 0, expr, false
	}
	n, ok = v.Int64()
	return n, expr, ok
}

func (l *lowerer) spanOf(id ast.ExprID) source.Span {
	if n := l.exprs.Get(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

func toWidth(n int64) (uint32, bool) {
	w, err := safecast.Conv[uint32](n)
	return w, err == nil
}

// intConst builds a sized signed constant of the integer width.
func (l *lowerer) intConst(n int64, span source.Span) *hir.Expr {
	return hir.NewConst(vnum.Int(n, l.opts.IntegerWidth).WithSized(true), span)
}

// makeAddExpr returns e + k, or e itself for k == 0.
func (l *lowerer) makeAddExpr(e *hir.Expr, k int64) *hir.Expr {
	if k == 0 {
		return e
	}
	c := l.intConst(k, e.Span)
	return Fold(l.arith(ast.OpAdd, e, c, e.Span))
}

// makeSubExpr returns k - e.
func (l *lowerer) makeSubExpr(k int64, e *hir.Expr) *hir.Expr {
	c := l.intConst(k, e.Span)
	return Fold(l.arith(ast.OpSub, c, e, e.Span))
}

// arith builds an index adjustment node at the integer width.
func (l *lowerer) arith(op ast.BinaryOp, a, b *hir.Expr, span source.Span) *hir.Expr {
	w := max(a.Width, b.Width)
	signed := a.Signed && b.Signed
	if !signed {
		a, b = a.WithSigned(false), b.WithSigned(false)
	}
	return &hir.Expr{
		Kind:   hir.ExprBinary,
		Width:  w,
		Signed: signed,
		Domain: vnum.DomainLogic,
		Span:   span,
		Data:   hir.BinaryData{Op: op, Class: hir.BinaryAdd, Left: a, Right: b},
	}
}

// domainOf combines operand domains: real wins, bool needs both.
func domainOf(a, b *hir.Expr) vnum.Domain {
	switch {
	case a.Domain == vnum.DomainReal || b.Domain == vnum.DomainReal:
		return vnum.DomainReal
	case a.Domain == vnum.DomainBool && b.Domain == vnum.DomainBool:
		return vnum.DomainBool
	}
	return vnum.DomainLogic
}

// definiteWidth is false for reals, references and unsized constants.
func definiteWidth(e *hir.Expr) bool {
	if !e.HasWidth() {
		return false
	}
	if v, ok := e.AsConst(); ok && !v.Sized() {
		return false
	}
	return true
}

func xConst(width int, span source.Span) *hir.Expr {
	return hir.NewConst(vnum.Fill(vnum.BX, width), span)
}
