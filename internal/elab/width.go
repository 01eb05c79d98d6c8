package elab

import (
	"verilab/internal/ast"
	"verilab/internal/symbols"
	"verilab/internal/vnum"
)

// testWidth computes the self-determined width of id without building
// IR. unsized is an in/out flag: it is set when an unsized operand is
// seen, and an already set flag makes add/sub grow.
func (l *lowerer) testWidth(id ast.ExprID, minW, lval int, unsized *bool) int {
	node := l.exprs.Get(id)
	if node == nil {
		return minW
	}
	switch node.Kind {
	case ast.ExprNumber:
		data, _ := l.exprs.Number(id)
		v, err := vnum.Parse(data.Text)
		if err != nil {
			return minW
		}
		if !v.Sized() {
			*unsized = true
		}
		return max(minW, v.Len())
	case ast.ExprReal:
		return max(minW, 1)
	case ast.ExprString:
		data, _ := l.exprs.StringLit(id)
		return max(minW, 8*max(len(data.Value), 1))
	case ast.ExprIdent:
		data, _ := l.exprs.Ident(id)
		return l.testIdentWidth(data.Path, minW, unsized)
	case ast.ExprUnary:
		data, _ := l.exprs.Unary(id)
		if data.Op.IsReduction() || data.Op == ast.UnLogNot {
			return 1
		}
		return l.testWidth(data.Operand, minW, lval, unsized)
	case ast.ExprCompare:
		return 1
	case ast.ExprShift:
		data, _ := l.exprs.Binary(id)
		return l.testWidth(data.Left, minW, 0, unsized)
	case ast.ExprBinary:
		return l.testBinaryWidth(id, minW, lval, unsized)
	case ast.ExprTernary:
		data, _ := l.exprs.Ternary(id)
		tw := l.testWidth(data.True, minW, lval, unsized)
		fw := l.testWidth(data.False, minW, lval, unsized)
		return max(tw, fw)
	case ast.ExprConcat:
		return max(minW, l.testConcatWidth(id))
	case ast.ExprCall:
		return l.testCallWidth(id, minW, lval, unsized)
	}
	return minW
}

func (l *lowerer) testBinaryWidth(id ast.ExprID, minW, lval int, unsized *bool) int {
	data, _ := l.exprs.Binary(id)
	var lf, rf bool
	lw := l.testWidth(data.Left, minW, lval, &lf)
	rw := l.testWidth(data.Right, minW, lval, &rf)
	if lf || rf {
		*unsized = true
	}
	switch data.Op {
	case ast.OpAdd, ast.OpSub:
		if *unsized {
			lw++
			rw++
		}
		w := max(minW, lw, rw)
		if lval > 0 && w > lval {
			w = lval
		}
		return w
	default:
		return max(minW, lw, rw)
	}
}

func (l *lowerer) testConcatWidth(id ast.ExprID) int {
	data, _ := l.exprs.Concat(id)
	sum := 0
	for _, part := range data.Parts {
		if !part.IsValid() {
			continue
		}
		flag := false
		sum += l.testWidth(part, 0, 0, &flag)
	}
	if data.Repeat.IsValid() {
		n, _, ok := l.probe().constInt(data.Repeat)
		if !ok || n < 0 {
			return sum
		}
		return sum * int(n)
	}
	return sum
}

func (l *lowerer) testIdentWidth(path ast.Path, minW int, unsized *bool) int {
	b := l.res.Lookup(l.scope, path.Names())
	last := path.Last()
	switch b.Kind {
	case symbols.BindSignal:
		sig := b.Signal
		idx := last.Index
		if sig.IsArray() && len(idx) > 0 {
			idx = idx[1:]
		}
		natural := int(sig.Width())
		if len(idx) == 0 {
			return max(minW, natural)
		}
		return l.testSelectWidth(idx[len(idx)-1], natural)
	case symbols.BindParam:
		p := b.Param
		if p.IsReal {
			return max(minW, 1)
		}
		if len(last.Index) == 0 {
			if !p.Value.Sized() {
				*unsized = true
			}
			return max(minW, p.Value.Len())
		}
		return l.testSelectWidth(last.Index[len(last.Index)-1], p.Value.Len())
	case symbols.BindEvent:
		return minW
	}
	if len(path) == 1 {
		if g, ok := l.res.Genvar(l.scope); ok && g.Name == last.Name {
			return max(minW, l.opts.IntegerWidth)
		}
		if l.opts.SpecifyBlocks {
			if sp, ok := l.res.Specparam(l.scope, last.Name); ok {
				if sp.IsReal {
					return max(minW, 1)
				}
				return max(minW, l.opts.IntegerWidth)
			}
		}
	}
	return minW
}

// testSelectWidth evaluates select bounds silently; a bound that does
// not fold leaves the natural width.
func (l *lowerer) testSelectWidth(ix ast.Index, natural int) int {
	p := l.probe()
	switch ix.Sel {
	case ast.SelBit:
		return 1
	case ast.SelPart:
		msb, _, mok := p.constInt(ix.Msb)
		lsb, _, lok := p.constInt(ix.Lsb)
		if !mok || !lok {
			return natural
		}
		if msb >= lsb {
			return int(msb-lsb) + 1
		}
		return int(lsb-msb) + 1
	case ast.SelIdxUp, ast.SelIdxDown:
		wid, _, ok := p.constInt(ix.Lsb)
		if !ok || wid <= 0 {
			return 1
		}
		return int(wid)
	}
	return natural
}

func (l *lowerer) testCallWidth(id ast.ExprID, minW, lval int, unsized *bool) int {
	data, _ := l.exprs.Call(id)
	if data.System() {
		name := data.Path[0].Name
		switch name {
		case "$signed", "$unsigned":
			if len(data.Args) == 0 || !data.Args[0].IsValid() {
				return 0
			}
			return l.testWidth(data.Args[0], minW, lval, unsized)
		}
		return lookupSysFunc(name, l.opts).Width
	}
	fn := l.res.FindFunction(l.scope, data.Path.Names())
	if fn == nil || fn.Return == nil {
		return 0
	}
	return int(fn.Return.Width())
}
