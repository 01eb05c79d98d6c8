package hir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format renders e on one line in Verilog-like syntax.
func Format(e *Expr) string {
	var b strings.Builder
	format(&b, e)
	return b.String()
}

func format(b *strings.Builder, e *Expr) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	switch d := e.Data.(type) {
	case ConstData:
		b.WriteString(d.Value.String())
	case ConstParamData:
		b.WriteString(d.Param.Name)
	case ConstRealData:
		b.WriteString(strconv.FormatFloat(d.Value, 'g', -1, 64))
	case SignalData:
		b.WriteString(d.Signal.Name)
		if d.Word != nil {
			b.WriteByte('[')
			format(b, d.Word)
			b.WriteByte(']')
		}
	case ScopeData:
		b.WriteString(d.Name)
	case EventData:
		b.WriteString(d.Event.Name)
	case SelectData:
		if d.Offset == nil {
			b.WriteString("resize(")
			format(b, d.Base)
			fmt.Fprintf(b, ", %d)", e.Width)
			return
		}
		format(b, d.Base)
		b.WriteByte('[')
		format(b, d.Offset)
		fmt.Fprintf(b, "+:%d]", e.Width)
	case ConcatData:
		b.WriteByte('{')
		if d.Repeat != 1 {
			fmt.Fprintf(b, "%d{", d.Repeat)
		}
		formatList(b, d.Parts)
		if d.Repeat != 1 {
			b.WriteByte('}')
		}
		b.WriteByte('}')
	case TernaryData:
		b.WriteByte('(')
		format(b, d.Cond)
		b.WriteString(" ? ")
		format(b, d.True)
		b.WriteString(" : ")
		format(b, d.False)
		b.WriteByte(')')
	case UnaryData:
		b.WriteString(d.Op.String())
		format(b, d.Operand)
	case BinaryData:
		b.WriteByte('(')
		format(b, d.Left)
		b.WriteString(" " + d.Op.String() + " ")
		format(b, d.Right)
		b.WriteByte(')')
	case UserCallData:
		b.WriteString(d.Func.Name)
		b.WriteByte('(')
		formatList(b, d.Args)
		b.WriteByte(')')
	case SysCallData:
		b.WriteString(d.Name)
		b.WriteByte('(')
		formatList(b, d.Args)
		b.WriteByte(')')
	default:
		b.WriteString("<?>")
	}
}

func formatList(b *strings.Builder, xs []*Expr) {
	for i, x := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, x)
	}
}

// Dump writes an indented tree with width, sign and domain of every node.
func Dump(w io.Writer, e *Expr) error {
	p := printer{w: w}
	p.node(e, 0)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) node(e *Expr, depth int) {
	indent := strings.Repeat("  ", depth)
	if e == nil {
		p.printf("%s<nil>\n", indent)
		return
	}
	sign := "u"
	if e.Signed {
		sign = "s"
	}
	p.printf("%s%s w=%d %s %s%s\n", indent, e.Kind, e.Width, sign, e.Domain, detail(e))
	for _, c := range Children(e) {
		p.node(c, depth+1)
	}
}

func detail(e *Expr) string {
	switch d := e.Data.(type) {
	case ConstData:
		return " " + d.Value.String()
	case ConstParamData:
		return " " + d.Param.Name + "=" + d.Value.String()
	case ConstRealData:
		return " " + strconv.FormatFloat(d.Value, 'g', -1, 64)
	case SignalData:
		return " " + d.Signal.Name
	case ScopeData:
		return " " + d.Name
	case EventData:
		return " " + d.Event.Name
	case SelectData:
		if d.Offset == nil {
			return " resize"
		}
	case ConcatData:
		if d.Repeat != 1 {
			return " x" + strconv.FormatUint(uint64(d.Repeat), 10)
		}
	case UnaryData:
		return " " + d.Op.String()
	case BinaryData:
		if d.Lossless {
			return " " + d.Op.String() + " lossless"
		}
		return " " + d.Op.String()
	case UserCallData:
		return " " + d.Func.Name
	case SysCallData:
		return " " + d.Name
	}
	return ""
}
