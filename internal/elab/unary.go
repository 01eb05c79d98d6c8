package elab

import (
	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/hir"
	"verilab/internal/vnum"
)

func (l *lowerer) lowerUnary(id ast.ExprID, node *ast.Expr, width int) *hir.Expr {
	data, _ := l.exprs.Unary(id)
	if data.Op.IsReduction() || data.Op == ast.UnLogNot {
		// self-determined operand
		width = SelfWidth
	}
	ip := l.lower(data.Operand, width, false)
	if ip == nil {
		return nil
	}
	switch data.Op {
	case ast.UnPlus:
		return ip
	case ast.UnMinus:
		if v, ok := ip.AsConst(); ok {
			if width > 0 {
				v = v.Extend(width)
			}
			// one extra bit for the sign
			neg := vnum.Neg(v.Extend(v.Len() + 1))
			return hir.NewConst(neg, node.Span)
		}
		if f, ok := ip.AsReal(); ok {
			return hir.NewConstReal(-f, node.Span)
		}
		return &hir.Expr{
			Kind: hir.ExprUnary, Width: ip.Width, Signed: ip.Signed, Domain: ip.Domain, Span: node.Span,
			Data: hir.UnaryData{Op: data.Op, Class: hir.UnaryGeneric, Operand: ip},
		}
	case ast.UnLogNot:
		if v, ok := ip.AsConst(); ok {
			return hir.NewConst(vnum.FromBit(vnum.LogicalNot(v)), node.Span)
		}
		return reduceNode(data.Op, ip, node)
	case ast.UnBitNot:
		if ip.Domain == vnum.DomainReal {
			l.errorf(diag.ElabRealOperand, node.Span, "operator %s may not have a real operand", data.Op)
			return nil
		}
		return &hir.Expr{
			Kind: hir.ExprUnary, Width: ip.Width, Signed: ip.Signed, Domain: ip.Domain, Span: node.Span,
			Data: hir.UnaryData{Op: data.Op, Class: hir.UnaryBits, Operand: ip},
		}
	}
	if ip.Domain == vnum.DomainReal {
		l.errorf(diag.ElabRealOperand, node.Span, "reduction %s may not have a real operand", data.Op)
		return nil
	}
	return reduceNode(data.Op, ip, node)
}

func reduceNode(op ast.UnaryOp, ip *hir.Expr, node *ast.Expr) *hir.Expr {
	dom := vnum.DomainLogic
	if ip.Domain == vnum.DomainBool {
		dom = vnum.DomainBool
	}
	return &hir.Expr{
		Kind: hir.ExprUnary, Width: 1, Domain: dom, Span: node.Span,
		Data: hir.UnaryData{Op: op, Class: hir.UnaryReduce, Operand: ip},
	}
}
