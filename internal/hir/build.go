package hir

import (
	"fortio.org/safecast"

	"verilab/internal/source"
	"verilab/internal/vnum"
)

func width(n int) uint32 {
	w, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return w
}

func constDomain(v vnum.Value) vnum.Domain {
	if v.IsDefined() {
		return vnum.DomainBool
	}
	return vnum.DomainLogic
}

// NewConst wraps a vector value.
func NewConst(v vnum.Value, span source.Span) *Expr {
	return &Expr{
		Kind:   ExprConst,
		Width:  width(v.Len()),
		Signed: v.Signed(),
		Domain: constDomain(v),
		Span:   span,
		Data:   ConstData{Value: v},
	}
}

func NewConstReal(f float64, span source.Span) *Expr {
	return &Expr{Kind: ExprConstReal, Width: 1, Signed: true, Domain: vnum.DomainReal, Span: span, Data: ConstRealData{Value: f}}
}

// AsConst returns the vector value of a Const or ConstParam node.
func (e *Expr) AsConst() (vnum.Value, bool) {
	if e == nil {
		return vnum.Value{}, false
	}
	switch d := e.Data.(type) {
	case ConstData:
		return d.Value, true
	case ConstParamData:
		return d.Value, true
	}
	return vnum.Value{}, false
}

// AsReal returns the value of a ConstReal node.
func (e *Expr) AsReal() (float64, bool) {
	if e == nil {
		return 0, false
	}
	if d, ok := e.Data.(ConstRealData); ok {
		return d.Value, true
	}
	return 0, false
}

// IsConst reports vector constants, not reals.
func (e *Expr) IsConst() bool {
	_, ok := e.AsConst()
	return ok
}

// HasWidth is false for nodes without a vector width: reals, strings,
// scopes and events.
func (e *Expr) HasWidth() bool {
	switch e.Domain {
	case vnum.DomainBool, vnum.DomainLogic:
		return true
	}
	return false
}

// WithSigned returns a copy with the signed flag changed. Constant
// values are re-flagged too.
func (e *Expr) WithSigned(signed bool) *Expr {
	out := *e
	out.Signed = signed
	switch d := e.Data.(type) {
	case ConstData:
		out.Data = ConstData{Value: d.Value.WithSigned(signed)}
	case ConstParamData:
		d.Value = d.Value.WithSigned(signed)
		out.Data = d
	}
	return &out
}

// PadToWidth widens e to w bits. Constants are padded by value, other
// nodes get wrapped in a resizing select that extends according to
// e.Signed. Nodes already at least w wide are returned unchanged.
func PadToWidth(e *Expr, w uint32, span source.Span) *Expr {
	if e == nil || e.Width >= w || !e.HasWidth() {
		return e
	}
	if v, ok := e.AsConst(); ok {
		return NewConst(v.Extend(int(w)), e.Span)
	}
	return &Expr{
		Kind:   ExprSelect,
		Width:  w,
		Signed: e.Signed,
		Domain: e.Domain,
		Span:   span,
		Data:   SelectData{Base: e},
	}
}

// NewSelect builds a part select of w bits of base at offset. Constant
// offsets on a select of a select are folded into one select, and a
// select covering all of base at offset zero returns base itself. The
// fold applies only when the outer select stays inside the inner one;
// otherwise the bits past the inner select must read as X, not as bits
// of the inner base.
func NewSelect(base, offset *Expr, w uint32, span source.Span) *Expr {
	if off, ok := offset.AsConst(); ok {
		n, defined := off.Int64()
		if defined && n == 0 && w == base.Width {
			return base
		}
		inside := defined && n >= 0 && uint64(n)+uint64(w) <= uint64(base.Width) //nolint:gosec // G115: n >= 0 checked
		if inner, isSel := base.Data.(SelectData); isSel && inside {
			if innerOff, ok := inner.Offset.AsConst(); ok {
				m, mok := innerOff.Int64()
				if mok && m >= 0 {
					sum := vnum.Uint(uint64(n+m), max(off.Len(), innerOff.Len(), 32)) //nolint:gosec // G115: both non-negative
					return NewSelect(inner.Base, NewConst(sum, offset.Span), w, span)
				}
			}
		}
	}
	dom := base.Domain
	if dom != vnum.DomainBool {
		dom = vnum.DomainLogic
	}
	return &Expr{
		Kind:   ExprSelect,
		Width:  w,
		Domain: dom,
		Span:   span,
		Data:   SelectData{Base: base, Offset: offset},
	}
}

// NewSignal references a signal (or one word of an array).
func NewSignal(d SignalData, span source.Span) *Expr {
	sig := d.Signal
	w := uint32(1)
	if sig.Domain != vnum.DomainReal {
		w = width(int(sig.Width()))
	}
	return &Expr{Kind: ExprSignal, Width: w, Signed: sig.Signed || sig.Domain == vnum.DomainReal, Domain: sig.Domain, Span: span, Data: d}
}

// NewConcat builds {Repeat{parts}}.
func NewConcat(parts []*Expr, repeat uint32, span source.Span) *Expr {
	var w uint32
	dom := vnum.DomainBool
	for _, p := range parts {
		w += p.Width
		if p.Domain != vnum.DomainBool {
			dom = vnum.DomainLogic
		}
	}
	return &Expr{Kind: ExprConcat, Width: w * repeat, Domain: dom, Span: span, Data: ConcatData{Parts: parts, Repeat: repeat}}
}
