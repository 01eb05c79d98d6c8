package ast

import (
	"strconv"
	"strings"
)

// Format renders an expression back to Verilog text. Used in diagnostic
// messages, so it favours readability over exact round-tripping.
func (e *Exprs) Format(id ExprID) string {
	var b strings.Builder
	e.format(&b, id)
	return b.String()
}

// FormatPath renders a name with its selects.
func (e *Exprs) FormatPath(p Path) string {
	var b strings.Builder
	e.formatPath(&b, p)
	return b.String()
}

func (e *Exprs) formatPath(b *strings.Builder, p Path) {
	for i, c := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(c.Name)
		for _, idx := range c.Index {
			b.WriteByte('[')
			e.format(b, idx.Msb)
			switch idx.Sel {
			case SelPart:
				b.WriteByte(':')
				e.format(b, idx.Lsb)
			case SelIdxUp:
				b.WriteString("+:")
				e.format(b, idx.Lsb)
			case SelIdxDown:
				b.WriteString("-:")
				e.format(b, idx.Lsb)
			}
			b.WriteByte(']')
		}
	}
}

func (e *Exprs) format(b *strings.Builder, id ExprID) {
	expr := e.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ExprIdent:
		d, _ := e.Ident(id)
		e.formatPath(b, d.Path)
	case ExprNumber:
		d, _ := e.Number(id)
		b.WriteString(d.Text)
	case ExprReal:
		d, _ := e.Real(id)
		b.WriteString(d.Text)
	case ExprString:
		d, _ := e.StringLit(id)
		b.WriteString(strconv.Quote(d.Value))
	case ExprUnary:
		d, _ := e.Unary(id)
		b.WriteString(d.Op.String())
		e.format(b, d.Operand)
	case ExprBinary, ExprCompare, ExprShift:
		d, _ := e.Binary(id)
		b.WriteByte('(')
		e.format(b, d.Left)
		b.WriteByte(' ')
		b.WriteString(d.Op.String())
		b.WriteByte(' ')
		e.format(b, d.Right)
		b.WriteByte(')')
	case ExprTernary:
		d, _ := e.Ternary(id)
		b.WriteByte('(')
		e.format(b, d.Cond)
		b.WriteString(" ? ")
		e.format(b, d.True)
		b.WriteString(" : ")
		e.format(b, d.False)
		b.WriteByte(')')
	case ExprConcat:
		d, _ := e.Concat(id)
		b.WriteByte('{')
		if d.Repeat.IsValid() {
			e.format(b, d.Repeat)
			b.WriteByte('{')
		}
		e.formatList(b, d.Parts)
		if d.Repeat.IsValid() {
			b.WriteByte('}')
		}
		b.WriteByte('}')
	case ExprCall:
		d, _ := e.Call(id)
		e.formatPath(b, d.Path)
		b.WriteByte('(')
		e.formatList(b, d.Args)
		b.WriteByte(')')
	}
}

func (e *Exprs) formatList(b *strings.Builder, ids []ExprID) {
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		e.format(b, id)
	}
}
