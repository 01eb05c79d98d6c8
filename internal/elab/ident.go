package elab

import (
	"fmt"

	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/symbols"
	"verilab/internal/vnum"
)

// lowerIdent binds a name: param, signal, event, genvar, specparam and
// finally a scope, which only a system task argument may name.
func (l *lowerer) lowerIdent(path ast.Path, span source.Span, width int, sysTaskArg bool) *hir.Expr {
	names := path.Names()
	b := l.res.Lookup(l.scope, names)
	switch b.Kind {
	case symbols.BindParam:
		return l.lowerParam(path, b, span)
	case symbols.BindSignal:
		return l.lowerSignal(path, b.Signal, span, sysTaskArg)
	case symbols.BindEvent:
		return &hir.Expr{Kind: hir.ExprEvent, Domain: vnum.DomainNone, Span: span, Data: hir.EventData{Event: b.Event}}
	}

	last := path.Last()
	if len(path) == 1 {
		if g, ok := l.res.Genvar(l.scope); ok && g.Name == last.Name {
			return l.intConst(g.Value, span)
		}
		if l.opts.SpecifyBlocks {
			if sp, ok := l.res.Specparam(l.scope, last.Name); ok {
				if sp.IsReal {
					return hir.NewConstReal(sp.Real, span)
				}
				return l.intConst(sp.Int, span)
			}
		}
	}

	if !sysTaskArg {
		rb := diag.ReportError(l.rep, diag.ElabUnresolvedIdentifier, span,
			fmt.Sprintf("unable to bind wire/reg/memory `%s' in `%s'", path, l.res.ScopeName(l.scope)))
		if l.namesScope(names) {
			rb = rb.WithNote(span, fmt.Sprintf("`%s' is a scope; only a system task argument may name one", path))
		}
		rb.Emit()
		return nil
	}

	if len(path) == 1 {
		if sc, ok := l.res.ChildScope(l.scope, last.Name); ok {
			return l.scopeRef(sc, span)
		}
	}
	if sc, ok := l.res.FindScope(l.scope, names, false); ok {
		return l.scopeRef(sc, span)
	}
	if sc, ok := l.res.FindScope(l.scope, names, true); ok {
		return l.scopeRef(sc, span)
	}
	l.errorf(diag.ElabUnresolvedIdentifier, span, "unable to bind wire/reg/memory `%s' in `%s'", path, l.res.ScopeName(l.scope))
	return nil
}

func (l *lowerer) namesScope(names []string) bool {
	if _, ok := l.res.FindScope(l.scope, names, false); ok {
		return true
	}
	_, ok := l.res.FindScope(l.scope, names, true)
	return ok
}

func (l *lowerer) scopeRef(sc symbols.ScopeID, span source.Span) *hir.Expr {
	return &hir.Expr{
		Kind:   hir.ExprScope,
		Domain: vnum.DomainNone,
		Span:   span,
		Data:   hir.ScopeData{Scope: sc, Name: l.res.ScopeName(sc)},
	}
}

// lowerSignal handles plain signals and array words, then applies the
// trailing select if any.
func (l *lowerer) lowerSignal(path ast.Path, sig *symbols.Signal, span source.Span, sysTaskArg bool) *hir.Expr {
	index := path.Last().Index
	var base *hir.Expr
	if sig.IsArray() {
		word, ok := l.lowerWord(path, sig, span, sysTaskArg)
		if !ok {
			return nil
		}
		if word.Kind != hir.ExprSignal {
			// out-of-range word: constant X
			return word
		}
		base = word
		if len(index) > 0 {
			index = index[1:]
		}
	} else {
		base = hir.NewSignal(hir.SignalData{Signal: sig}, span)
	}
	if len(index) == 0 {
		return base
	}
	if sig.Domain == vnum.DomainReal {
		l.errorf(diag.ElabDomainMismatch, span, "cannot select bits of real `%s'", path)
		return nil
	}
	t := selectTarget{base: base, rng: sig.Range, width: int64(base.Width), name: sig.Name}
	return l.lowerSelect(t, index[len(index)-1], span)
}

// lowerWord resolves the array word index. The returned expression is
// either the word signal or an all-X constant for an out-of-range word.
func (l *lowerer) lowerWord(path ast.Path, sig *symbols.Signal, span source.Span, sysTaskArg bool) (*hir.Expr, bool) {
	index := path.Last().Index
	if len(index) == 0 {
		if !sysTaskArg {
			l.errorf(diag.ElabArrayNeedsIndex, span, "array %s needs an array index here", path)
			return nil, false
		}
		return hir.NewSignal(hir.SignalData{Signal: sig}, span), true
	}
	front := index[0]
	if front.Sel != ast.SelBit {
		l.errorf(diag.ElabArrayRangeIndex, front.Span, "array %s cannot be indexed by a range", path)
		return nil, false
	}
	word := l.lowerEval(front.Msb, SelfWidth)
	if word == nil {
		return nil, false
	}
	if v, ok := word.AsConst(); ok {
		addr, defined := v.Int64()
		if !defined || !sig.WordValid(addr) {
			l.warnf(diag.ElabOutOfRangeSelect, front.Span, "array index %s out of range of %s", v, path)
			return xConst(int(sig.Width()), span), true
		}
		word = hir.NewConst(vnum.Uint(uint64(sig.WordAddress(addr)), 32), front.Span) //nolint:gosec // G115: valid address is non-negative
	} else if low := sig.Array.Low(); low != 0 {
		word = l.makeAddExpr(word, -low)
	}
	return hir.NewSignal(hir.SignalData{Signal: sig, Word: word}, span), true
}

// lowerParam returns the parameter value, a select of it, or a real.
func (l *lowerer) lowerParam(path ast.Path, b symbols.Binding, span source.Span) *hir.Expr {
	p := b.Param
	index := path.Last().Index
	if p.IsReal {
		if len(index) > 0 {
			l.errorf(diag.ElabDomainMismatch, span, "cannot select bits of real parameter `%s'", path)
			return nil
		}
		return hir.NewConstReal(p.Real, span)
	}
	if len(index) == 0 {
		return &hir.Expr{
			Kind:   hir.ExprConstParam,
			Width:  uint32(p.Value.Len()), //nolint:gosec // G115: value length fits
			Signed: p.Value.Signed(),
			Domain: constDomain(p.Value),
			Span:   span,
			Data:   hir.ConstParamData{Value: p.Value, Param: p, Scope: b.Scope},
		}
	}
	return l.lowerParamSelect(p, index[len(index)-1], span)
}

func constDomain(v vnum.Value) vnum.Domain {
	if v.IsDefined() {
		return vnum.DomainBool
	}
	return vnum.DomainLogic
}
