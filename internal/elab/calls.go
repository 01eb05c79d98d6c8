package elab

import (
	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/vnum"
)

func (l *lowerer) lowerCall(id ast.ExprID, node *ast.Expr, width int) *hir.Expr {
	data, _ := l.exprs.Call(id)
	if data.System() {
		name := data.Path[0].Name
		switch name {
		case "$signed", "$unsigned", "$bits", "$sizeof", "$is_signed":
			return l.lowerBuiltin(name, data.Args, node.Span, width)
		}
		return l.lowerSysCall(name, data.Args, node.Span)
	}
	return l.lowerUserCall(data, node.Span)
}

// normalizeArgs: f() parses as one empty argument, which means none.
func normalizeArgs(args []ast.ExprID) []ast.ExprID {
	if len(args) == 1 && !args[0].IsValid() {
		return nil
	}
	return args
}

// lowerBuiltin handles the functions evaluated during elaboration.
func (l *lowerer) lowerBuiltin(name string, args []ast.ExprID, span source.Span, width int) *hir.Expr {
	if len(args) != 1 || !args[0].IsValid() {
		l.errorf(diag.ElabSignCastArity, span, "%s takes a single argument", name)
		return nil
	}
	switch name {
	case "$signed", "$unsigned":
		// the argument is self-determined, a cast never changes its bits
		arg := l.lower(args[0], SelfWidth, false)
		if arg == nil {
			return nil
		}
		if arg.Domain == vnum.DomainReal {
			return arg
		}
		out := arg.WithSigned(name == "$signed")
		if name == "$unsigned" && width > 0 {
			out = hir.PadToWidth(out, uint32(width), span) //nolint:gosec // G115: width > 0 checked
		}
		return out
	}

	arg := l.lower(args[0], SelfWidth, true)
	if arg == nil {
		return nil
	}
	switch name {
	case "$sizeof":
		l.warnf(diag.ElabDeprecated, span, "$sizeof is deprecated, use $bits instead")
		fallthrough
	case "$bits":
		return hir.NewConst(vnum.Uint(uint64(arg.Width), 32), span)
	default: // $is_signed
		b := uint64(0)
		if arg.Signed {
			b = 1
		}
		return hir.NewConst(vnum.Uint(b, 1), span)
	}
}

func (l *lowerer) lowerSysCall(name string, args []ast.ExprID, span source.Span) *hir.Expr {
	args = normalizeArgs(args)
	sf := lookupSysFunc(name, l.opts)
	parms := make([]*hir.Expr, len(args))
	failed := false
	missing := 0
	for i, a := range args {
		if !a.IsValid() {
			missing++
			continue
		}
		ex := l.lower(a, SelfWidth, true)
		if ex == nil {
			failed = true
			continue
		}
		parms[i] = Fold(ex)
	}
	if missing > 0 {
		l.errorf(diag.ElabMissingArgument, span, "%s has %d missing argument(s)", name, missing)
		return nil
	}
	if failed {
		return nil
	}
	w, _ := toWidth(int64(sf.Width))
	if sf.Domain == vnum.DomainReal {
		w = 1
	}
	return &hir.Expr{
		Kind:   hir.ExprSysCall,
		Width:  w,
		Signed: sf.Signed,
		Domain: sf.Domain,
		Span:   span,
		Data:   hir.SysCallData{Name: name, Args: parms},
	}
}

func (l *lowerer) lowerUserCall(data *ast.ExprCallData, span source.Span) *hir.Expr {
	fn := l.res.FindFunction(l.scope, data.Path.Names())
	if fn == nil {
		l.errorf(diag.ElabUnknownFunction, span, "no function named `%s' found in this context (%s)", data.Path, l.res.ScopeName(l.scope))
		return nil
	}
	args := normalizeArgs(data.Args)
	arity := len(args) == len(fn.Ports)
	if !arity {
		l.errorf(diag.ElabArityMismatch, span, "function %s expects %d argument(s), got %d", fn.Name, len(fn.Ports), len(args))
	}

	parms := make([]*hir.Expr, len(args))
	failed := false
	missing := 0
	for i, a := range args {
		if !a.IsValid() {
			missing++
			continue
		}
		w := SelfWidth
		if i < len(fn.Ports) && fn.Ports[i].Domain != vnum.DomainReal {
			w = int(fn.Ports[i].Width())
		}
		ex := l.lowerEval(a, w)
		if ex == nil {
			failed = true
			continue
		}
		parms[i] = ex
	}
	if missing > 0 {
		l.errorf(diag.ElabMissingArgument, span, "call to %s has %d missing argument(s)", fn.Name, missing)
		return nil
	}
	if failed || !arity {
		return nil
	}
	if fn.Return == nil {
		l.errorf(diag.ElabMissingReturn, span, "function %s has no return value", fn.Name)
		return nil
	}
	ret := hir.NewSignal(hir.SignalData{Signal: fn.Return}, span)
	return &hir.Expr{
		Kind:   hir.ExprUserCall,
		Width:  ret.Width,
		Signed: ret.Signed,
		Domain: ret.Domain,
		Span:   span,
		Data:   hir.UserCallData{Func: fn, Result: fn.Return, Args: parms},
	}
}
