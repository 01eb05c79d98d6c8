package elab

import (
	"fortio.org/safecast"

	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/symbols"
	"verilab/internal/vnum"
)

// selectTarget is what a select applies to: a signal (or array word) or
// a parameter. For parameters value is set and constant selects are
// computed from the value instead of building select nodes.
type selectTarget struct {
	base  *hir.Expr
	rng   symbols.Range
	width int64
	name  string
	param bool
	value vnum.Value
}

func (l *lowerer) lowerParamSelect(p *symbols.Param, ix ast.Index, span source.Span) *hir.Expr {
	base := &hir.Expr{
		Kind:   hir.ExprConstParam,
		Width:  uint32(p.Value.Len()), //nolint:gosec // G115: value length fits
		Signed: p.Value.Signed(),
		Domain: constDomain(p.Value),
		Span:   span,
		Data:   hir.ConstParamData{Value: p.Value, Param: p, Scope: p.Scope},
	}
	t := selectTarget{base: base, rng: p.DeclRange(), width: int64(p.Value.Len()), name: p.Name, param: true, value: p.Value}
	return l.lowerSelect(t, ix, span)
}

// maxSelectWidth caps constant selects; the X padding of a wider select
// is never allocated.
const maxSelectWidth = 1 << 24

// indexFits keeps select arithmetic in range: the sum or difference of
// two int32 bounds, plus a width under maxSelectWidth, fits an int64.
func indexFits(ns ...int64) bool {
	for _, n := range ns {
		if _, err := safecast.Conv[int32](n); err != nil {
			return false
		}
	}
	return true
}

func (l *lowerer) lowerSelect(t selectTarget, ix ast.Index, span source.Span) *hir.Expr {
	if !indexFits(t.rng.Msb, t.rng.Lsb) {
		l.errorf(diag.ElabSelectTooWide, span, "declared range [%d:%d] of %s does not fit a 32-bit index", t.rng.Msb, t.rng.Lsb, t.name)
		return nil
	}
	switch ix.Sel {
	case ast.SelPart:
		msv, ok := l.selectBound(ix.Msb, "part select")
		if !ok {
			return nil
		}
		lsv, ok := l.selectBound(ix.Lsb, "part select")
		if !ok {
			return nil
		}
		return l.partSelect(t, msv, lsv, span)
	case ast.SelIdxUp, ast.SelIdxDown:
		return l.indexedSelect(t, ix, span)
	case ast.SelBit:
		return l.bitSelect(t, ix, span)
	}
	l.errorf(diag.ElabInternalConsistency, span, "unknown select kind %s", ix.Sel)
	return nil
}

// selectBound evaluates a bound that must be a compile-time constant.
func (l *lowerer) selectBound(id ast.ExprID, what string) (int64, bool) {
	n, expr, ok := l.constInt(id)
	if expr == nil {
		return 0, false
	}
	if !ok {
		l.errorf(diag.ElabNonConstantSelect, l.spanOf(id), "%s expressions must be constant: %s", what, hir.Format(expr))
		return 0, false
	}
	return n, true
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// partSelect lowers [msv:lsv] with constant bounds. Bits outside the
// target become X (or the parameter padding).
func (l *lowerer) partSelect(t selectTarget, msv, lsv int64, span source.Span) *hir.Expr {
	if !indexFits(msv, lsv) {
		l.errorf(diag.ElabSelectTooWide, span, "part select bounds [%d:%d] of %s do not fit a 32-bit index", msv, lsv, t.name)
		return nil
	}
	sbMsb, sbLsb := t.rng.Index(msv), t.rng.Index(lsv)
	if sbMsb < sbLsb {
		l.errorf(diag.ElabOutOfOrderRange, span, "part select [%d:%d] is out of order", msv, lsv)
		return nil
	}
	wid := abs64(msv-lsv) + 1
	if wid > maxSelectWidth {
		l.errorf(diag.ElabSelectTooWide, span, "part select [%d:%d] is %d bits wide, the limit is %d", msv, lsv, wid, maxSelectWidth)
		return nil
	}
	w32, _ := toWidth(wid)
	if t.param {
		return hir.NewConst(paramBits(t.value, int(wid), sbLsb), span)
	}
	if sbLsb == 0 && wid == t.width {
		return t.base
	}
	if sbLsb >= t.width || sbMsb < 0 {
		l.warnf(diag.ElabOutOfRangeSelect, span, "part select %s[%d:%d] is out of range of [%d:%d]", t.name, msv, lsv, t.rng.Msb, t.rng.Lsb)
		return xConst(int(wid), span)
	}
	if sbLsb >= 0 && sbMsb < t.width {
		return hir.NewSelect(t.base, offsetConst(sbLsb, span), w32, span)
	}

	l.warnf(diag.ElabOutOfRangeSelect, span, "part select %s[%d:%d] is partly out of range of [%d:%d]", t.name, msv, lsv, t.rng.Msb, t.rng.Lsb)
	var parts []*hir.Expr
	if sbMsb >= t.width {
		parts = append(parts, xConst(int(sbMsb-t.width+1), span))
		sbMsb = t.width - 1
	}
	var bot *hir.Expr
	if sbLsb < 0 {
		bot = xConst(int(-sbLsb), span)
		sbLsb = 0
	}
	if sbLsb == 0 && sbMsb+1 == t.width {
		parts = append(parts, t.base)
	} else {
		mid, _ := toWidth(sbMsb - sbLsb + 1)
		parts = append(parts, hir.NewSelect(t.base, offsetConst(sbLsb, span), mid, span))
	}
	if bot != nil {
		parts = append(parts, bot)
	}
	return hir.NewConcat(parts, 1, span)
}

func offsetConst(n int64, span source.Span) *hir.Expr {
	return hir.NewConst(vnum.Uint(uint64(n), 32), span) //nolint:gosec // G115: callers pass non-negative offsets
}

// indexedBounds turns base +: wid / base -: wid into declared msb/lsb
// values for the target's range direction.
func indexedBounds(rng symbols.Range, base, wid int64, down bool) (msv, lsv int64) {
	switch {
	case !down && !rng.Ascending():
		return base + wid - 1, base
	case !down:
		return base, base + wid - 1
	case !rng.Ascending():
		return base, base - wid + 1
	default:
		return base - wid + 1, base
	}
}

// indexedOffset builds the canonical offset of the lowest selected bit
// for a run-time base.
func (l *lowerer) indexedOffset(rng symbols.Range, base *hir.Expr, wid int64, down bool) *hir.Expr {
	switch {
	case !down && !rng.Ascending():
		return l.makeAddExpr(base, -rng.Lsb)
	case !down:
		return l.makeSubExpr(rng.Lsb-wid+1, base)
	case !rng.Ascending():
		return l.makeAddExpr(base, 1-wid-rng.Lsb)
	default:
		return l.makeSubExpr(rng.Lsb, base)
	}
}

func (l *lowerer) indexedSelect(t selectTarget, ix ast.Index, span source.Span) *hir.Expr {
	wid, ok := l.selectBound(ix.Lsb, "indexed part select width")
	if !ok {
		return nil
	}
	w32, ok := toWidth(wid)
	if !ok || wid == 0 {
		l.errorf(diag.ElabNonConstantSelect, l.spanOf(ix.Lsb), "indexed part select width must be a positive constant, got %d", wid)
		return nil
	}
	if wid > maxSelectWidth {
		l.errorf(diag.ElabSelectTooWide, span, "indexed part select of %s is %d bits wide, the limit is %d", t.name, wid, maxSelectWidth)
		return nil
	}
	down := ix.Sel == ast.SelIdxDown
	base := l.lowerEval(ix.Msb, SelfWidth)
	if base == nil {
		return nil
	}
	if v, isConst := base.AsConst(); isConst {
		b, defined := v.Int64()
		if !defined {
			l.warnf(diag.ElabOutOfRangeSelect, span, "indexed part select base of %s is undefined", t.name)
			return xConst(int(wid), span)
		}
		if !indexFits(b) {
			l.errorf(diag.ElabSelectTooWide, span, "indexed part select base %d of %s does not fit a 32-bit index", b, t.name)
			return nil
		}
		msv, lsv := indexedBounds(t.rng, b, wid, down)
		return l.partSelect(t, msv, lsv, span)
	}
	return hir.NewSelect(t.base, l.indexedOffset(t.rng, base, wid, down), w32, span)
}

func (l *lowerer) bitSelect(t selectTarget, ix ast.Index, span source.Span) *hir.Expr {
	ex := l.lowerEval(ix.Msb, SelfWidth)
	if ex == nil {
		return nil
	}
	if v, isConst := ex.AsConst(); isConst {
		msv, defined := v.Int64()
		if !indexFits(msv) {
			// далеко за пределами любого диапазона
			defined = false
		}
		idx := t.rng.Index(msv)
		if t.param {
			if !defined {
				return xConst(1, span)
			}
			return hir.NewConst(paramBits(t.value, 1, idx), span)
		}
		if !defined || idx < 0 || idx >= t.width {
			l.warnf(diag.ElabOutOfRangeSelect, span, "bit select [%s] out of range of vector %s[%d:%d]; replaced with 1'bx",
				v, t.name, t.rng.Msb, t.rng.Lsb)
			return xConst(1, span)
		}
		if t.width == 1 {
			return t.base
		}
		return hir.NewSelect(t.base, offsetConst(idx, span), 1, span)
	}
	var off *hir.Expr
	if t.rng.Ascending() {
		off = l.makeSubExpr(t.rng.Lsb, ex)
	} else {
		off = l.makeAddExpr(ex, -t.rng.Lsb)
	}
	return hir.NewSelect(t.base, off, 1, span)
}

// paramBits extracts wid bits of a parameter value starting at the
// canonical index low. Bits below the value are X; bits above it are 0
// for strings, X for sized values and the sign bit for unsized ones.
func paramBits(val vnum.Value, wid int, low int64) vnum.Value {
	bits := make([]vnum.Bit, wid)
	n := int64(val.Len())
	for i := range bits {
		off := low + int64(i)
		switch {
		case off < 0:
			bits[i] = vnum.BX
		case off < n:
			bits[i] = val.Bit(int(off))
		case val.IsString():
			bits[i] = vnum.B0
		case val.Sized():
			bits[i] = vnum.BX
		default:
			bits[i] = val.SignBit()
		}
	}
	out := vnum.FromBits(bits, true, false)
	if val.IsString() && low%8 == 0 && wid%8 == 0 {
		return out.AsString()
	}
	return out
}
