package hir

// Children returns the direct operands of e in evaluation order.
func Children(e *Expr) []*Expr {
	if e == nil {
		return nil
	}
	var out []*Expr
	add := func(xs ...*Expr) {
		for _, x := range xs {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	switch d := e.Data.(type) {
	case SignalData:
		add(d.Word)
	case SelectData:
		add(d.Base, d.Offset)
	case ConcatData:
		add(d.Parts...)
	case TernaryData:
		add(d.Cond, d.True, d.False)
	case UnaryData:
		add(d.Operand)
	case BinaryData:
		add(d.Left, d.Right)
	case UserCallData:
		add(d.Args...)
	case SysCallData:
		add(d.Args...)
	}
	return out
}

// Inspect visits e depth-first. When fn returns false the children of
// that node are skipped.
func Inspect(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, fn)
	}
}

// Count returns the number of nodes matching pred.
func Count(e *Expr, pred func(*Expr) bool) int {
	n := 0
	Inspect(e, func(x *Expr) bool {
		if pred(x) {
			n++
		}
		return true
	})
	return n
}

// Equal compares two trees structurally, including widths and flags.
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Width != b.Width || a.Signed != b.Signed || a.Domain != b.Domain {
		return false
	}
	switch x := a.Data.(type) {
	case ConstData:
		y, ok := b.Data.(ConstData)
		return ok && x.Value.Equal(y.Value)
	case ConstParamData:
		y, ok := b.Data.(ConstParamData)
		return ok && x.Param == y.Param && x.Value.Equal(y.Value)
	case ConstRealData:
		y, ok := b.Data.(ConstRealData)
		return ok && x.Value == y.Value
	case SignalData:
		y, ok := b.Data.(SignalData)
		return ok && x.Signal == y.Signal && Equal(x.Word, y.Word)
	case ScopeData:
		y, ok := b.Data.(ScopeData)
		return ok && x.Scope == y.Scope
	case EventData:
		y, ok := b.Data.(EventData)
		return ok && x.Event == y.Event
	case UnaryData:
		y, ok := b.Data.(UnaryData)
		if !ok || x.Op != y.Op || x.Class != y.Class {
			return false
		}
	case BinaryData:
		y, ok := b.Data.(BinaryData)
		if !ok || x.Op != y.Op || x.Lossless != y.Lossless {
			return false
		}
	case ConcatData:
		y, ok := b.Data.(ConcatData)
		if !ok || x.Repeat != y.Repeat || len(x.Parts) != len(y.Parts) {
			return false
		}
	case UserCallData:
		y, ok := b.Data.(UserCallData)
		if !ok || x.Func != y.Func {
			return false
		}
	case SysCallData:
		y, ok := b.Data.(SysCallData)
		if !ok || x.Name != y.Name {
			return false
		}
	case SelectData:
		y, ok := b.Data.(SelectData)
		if !ok || (x.Offset == nil) != (y.Offset == nil) {
			return false
		}
	}
	ca, cb := Children(a), Children(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !Equal(ca[i], cb[i]) {
			return false
		}
	}
	return true
}

// Walk rewrites e bottom-up: children first, then fn on the node with
// its rewritten children. Nodes whose children did not change are not
// copied.
func Walk(e *Expr, fn func(*Expr) *Expr) *Expr {
	if e == nil {
		return nil
	}
	out := e
	switch d := e.Data.(type) {
	case SignalData:
		if w := Walk(d.Word, fn); w != d.Word {
			d.Word = w
			out = withData(e, d)
		}
	case SelectData:
		b, o := Walk(d.Base, fn), Walk(d.Offset, fn)
		if b != d.Base || o != d.Offset {
			d.Base, d.Offset = b, o
			out = withData(e, d)
		}
	case ConcatData:
		if parts, changed := walkList(d.Parts, fn); changed {
			d.Parts = parts
			out = withData(e, d)
		}
	case TernaryData:
		c, t, f := Walk(d.Cond, fn), Walk(d.True, fn), Walk(d.False, fn)
		if c != d.Cond || t != d.True || f != d.False {
			d.Cond, d.True, d.False = c, t, f
			out = withData(e, d)
		}
	case UnaryData:
		if o := Walk(d.Operand, fn); o != d.Operand {
			d.Operand = o
			out = withData(e, d)
		}
	case BinaryData:
		l, r := Walk(d.Left, fn), Walk(d.Right, fn)
		if l != d.Left || r != d.Right {
			d.Left, d.Right = l, r
			out = withData(e, d)
		}
	case UserCallData:
		if args, changed := walkList(d.Args, fn); changed {
			d.Args = args
			out = withData(e, d)
		}
	case SysCallData:
		if args, changed := walkList(d.Args, fn); changed {
			d.Args = args
			out = withData(e, d)
		}
	}
	return fn(out)
}

func walkList(xs []*Expr, fn func(*Expr) *Expr) ([]*Expr, bool) {
	var out []*Expr
	for i, x := range xs {
		y := Walk(x, fn)
		if y != x && out == nil {
			out = make([]*Expr, len(xs))
			copy(out, xs)
		}
		if out != nil {
			out[i] = y
		}
	}
	return out, out != nil
}

func withData(e *Expr, d ExprData) *Expr {
	out := *e
	out.Data = d
	return &out
}
