package elab

import (
	"context"
	"strconv"

	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/symbols"
	"verilab/internal/trace"
)

// Elaborator holds what is shared between elaborations: the read-only
// symbol table and the options. It keeps no per-call state, so one
// Elaborator may serve many goroutines.
type Elaborator struct {
	res  symbols.Resolver
	opts Options
}

func New(res symbols.Resolver, opts Options) *Elaborator {
	return &Elaborator{res: res, opts: opts.normalized()}
}

func (el *Elaborator) Options() Options { return el.opts }

// Request describes one expression to elaborate.
type Request struct {
	Exprs      *ast.Exprs
	Root       ast.ExprID
	Scope      symbols.ScopeID
	Width      int  // context width, see package doc
	SysTaskArg bool // the expression is a system task/function argument
}

// Elaborate lowers req.Root. A nil result means at least one error was
// sent to rep.
func (el *Elaborator) Elaborate(ctx context.Context, rep diag.Reporter, req Request) *hir.Expr {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeExpr, "elaborate", trace.CurrentSpan(ctx).SpanID)
	l := el.lowerer(ctx, rep, req.Exprs, req.Scope)
	l.parent = span.ID()
	out := l.lower(req.Root, req.Width, req.SysTaskArg)
	span.End(resultDetail(out))
	return out
}

// ElabAndEval elaborates and then folds constant subtrees.
func (el *Elaborator) ElabAndEval(ctx context.Context, rep diag.Reporter, req Request) *hir.Expr {
	out := el.Elaborate(ctx, rep, req)
	if out == nil {
		return nil
	}
	return Fold(out)
}

// TestWidth returns the self-determined width of the expression given a
// minimum width and an lvalue width, and whether an unsized operand was
// seen. It builds no IR and reports nothing.
func (el *Elaborator) TestWidth(exprs *ast.Exprs, id ast.ExprID, scope symbols.ScopeID, minWidth, lval int) (int, bool) {
	l := el.lowerer(context.Background(), diag.NopReporter{}, exprs, scope)
	unsized := false
	w := l.testWidth(id, minWidth, lval, &unsized)
	return w, unsized
}

func (el *Elaborator) lowerer(ctx context.Context, rep diag.Reporter, exprs *ast.Exprs, scope symbols.ScopeID) *lowerer {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &lowerer{
		el:     el,
		res:    el.res,
		opts:   el.opts,
		exprs:  exprs,
		scope:  scope,
		rep:    rep,
		tracer: trace.FromContext(ctx),
	}
}

func resultDetail(e *hir.Expr) string {
	if e == nil {
		return "failed"
	}
	return e.Kind.String() + " w=" + strconv.FormatUint(uint64(e.Width), 10)
}
