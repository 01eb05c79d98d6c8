// Package testkit holds structural checks shared by the parser, fuzz and
// elaboration tests.
package testkit

import (
	"fortio.org/safecast"
	"github.com/pkg/errors"

	"verilab/internal/ast"
	"verilab/internal/hir"
	"verilab/internal/source"
	"verilab/internal/vnum"
)

// CheckSpanInvariants runs the span invariants on a parsed expression:
// 1) the root span is non-empty, points at sf and lies within its content
// 2) every child span is non-empty and fully contained in its parent's
func CheckSpanInvariants(exprs *ast.Exprs, root ast.ExprID, sf *source.File) error {
	if exprs == nil || sf == nil {
		return errors.New("nil exprs or file")
	}
	node := exprs.Get(root)
	if node == nil {
		return errors.Errorf("root expression %d not found", root)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return errors.Wrap(err, "len content overflow")
	}
	if node.Span.End > lenContent {
		return errors.Errorf("root span end beyond content: %d > %d", node.Span.End, lenContent)
	}
	return checkNode(exprs, root, node.Span, sf.ID)
}

func checkNode(exprs *ast.Exprs, id ast.ExprID, outer source.Span, file source.FileID) error {
	node := exprs.Get(id)
	if node == nil {
		return errors.Errorf("nil expression for id=%d", id)
	}
	sp := node.Span
	if sp.End <= sp.Start {
		return errors.Errorf("empty %s span: %v", node.Kind, sp)
	}
	if sp.File != file {
		return errors.Errorf("%s span file mismatch: got=%d want=%d", node.Kind, sp.File, file)
	}
	if sp.Start < outer.Start || sp.End > outer.End {
		return errors.Errorf("%s span %v is outside its parent %v", node.Kind, sp, outer)
	}
	for _, c := range Children(exprs, id) {
		if err := checkNode(exprs, c, sp, file); err != nil {
			return err
		}
	}
	return nil
}

// Children lists the sub-expressions of id in source order, index
// expressions included. Empty slots are skipped.
func Children(exprs *ast.Exprs, id ast.ExprID) []ast.ExprID {
	var out []ast.ExprID
	add := func(ids ...ast.ExprID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}
	addPath := func(p ast.Path) {
		for _, comp := range p {
			for _, idx := range comp.Index {
				add(idx.Msb, idx.Lsb)
			}
		}
	}
	node := exprs.Get(id)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case ast.ExprIdent:
		if d, ok := exprs.Ident(id); ok {
			addPath(d.Path)
		}
	case ast.ExprUnary:
		if d, ok := exprs.Unary(id); ok {
			add(d.Operand)
		}
	case ast.ExprBinary, ast.ExprCompare, ast.ExprShift:
		if d, ok := exprs.Binary(id); ok {
			add(d.Left, d.Right)
		}
	case ast.ExprTernary:
		if d, ok := exprs.Ternary(id); ok {
			add(d.Cond, d.True, d.False)
		}
	case ast.ExprConcat:
		if d, ok := exprs.Concat(id); ok {
			add(d.Repeat)
			add(d.Parts...)
		}
	case ast.ExprCall:
		if d, ok := exprs.Call(id); ok {
			addPath(d.Path)
			add(d.Args...)
		}
	}
	return out
}

// CheckTreeInvariants verifies width bookkeeping of an elaborated tree:
// comparisons and logical operators are one bit, a concatenation is as
// wide as its parts times the repeat count, real literals are signed.
func CheckTreeInvariants(e *hir.Expr) error {
	var err error
	hir.Inspect(e, func(n *hir.Expr) bool {
		if err != nil {
			return false
		}
		err = checkTreeNode(n)
		return err == nil
	})
	return err
}

func checkTreeNode(n *hir.Expr) error {
	switch d := n.Data.(type) {
	case hir.BinaryData:
		if d.Left == nil || d.Right == nil {
			return errors.Errorf("binary %s with a missing operand", d.Op)
		}
		if (d.Class == hir.BinaryCompare || d.Class == hir.BinaryLogic) && n.Width != 1 {
			return errors.Errorf("%s result is w=%d, want one bit", d.Op, n.Width)
		}
	case hir.ConcatData:
		var sum uint32
		for _, p := range d.Parts {
			if p == nil {
				return errors.New("concatenation with a nil part")
			}
			sum += p.Width
		}
		if n.Width != sum*d.Repeat {
			return errors.Errorf("concatenation w=%d, parts give %d x%d", n.Width, sum, d.Repeat)
		}
	case hir.ConstRealData:
		if !n.Signed || n.Domain != vnum.DomainReal {
			return errors.Errorf("real literal %g is %s signed=%v", d.Value, n.Domain, n.Signed)
		}
	}
	return nil
}
