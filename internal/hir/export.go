package hir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Node is the flat, pointer-free form of an elaborated tree. It is what
// the driver caches on disk and what the JSON/msgpack outputs carry.
type Node struct {
	Kind     string  `json:"kind" msgpack:"k"`
	Width    uint32  `json:"width" msgpack:"w"`
	Signed   bool    `json:"signed,omitempty" msgpack:"s,omitempty"`
	Domain   string  `json:"domain" msgpack:"d"`
	Text     string  `json:"text,omitempty" msgpack:"t,omitempty"`
	Op       string  `json:"op,omitempty" msgpack:"o,omitempty"`
	Repeat   uint32  `json:"repeat,omitempty" msgpack:"r,omitempty"`
	Lossless bool    `json:"lossless,omitempty" msgpack:"l,omitempty"`
	Children []*Node `json:"children,omitempty" msgpack:"c,omitempty"`
}

// Export converts e into its Node form. A nil tree exports as nil.
func Export(e *Expr) *Node {
	if e == nil {
		return nil
	}
	n := &Node{
		Kind:   e.Kind.String(),
		Width:  e.Width,
		Signed: e.Signed,
		Domain: e.Domain.String(),
	}
	switch d := e.Data.(type) {
	case ConstData:
		n.Text = d.Value.String()
	case ConstParamData:
		n.Text = d.Param.Name
		n.Op = d.Value.String()
	case ConstRealData:
		n.Text = strconv.FormatFloat(d.Value, 'g', -1, 64)
	case SignalData:
		n.Text = d.Signal.Name
	case ScopeData:
		n.Text = d.Name
	case EventData:
		n.Text = d.Event.Name
	case SelectData:
		if d.Offset == nil {
			n.Op = "resize"
		}
	case ConcatData:
		n.Repeat = d.Repeat
	case UnaryData:
		n.Op = d.Op.String()
	case BinaryData:
		n.Op = d.Op.String()
		n.Lossless = d.Lossless
	case UserCallData:
		n.Text = d.Func.Name
	case SysCallData:
		n.Text = d.Name
	}
	for _, c := range Children(e) {
		n.Children = append(n.Children, Export(c))
	}
	return n
}

// MarshalNode encodes a node with msgpack.
func MarshalNode(n *Node) ([]byte, error) {
	return msgpack.Marshal(n)
}

func UnmarshalNode(data []byte) (*Node, error) {
	var n Node
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// DumpNode writes n in the same layout as Dump. Cached results only
// have the Node form, so the CLI prints them through this.
func DumpNode(w io.Writer, n *Node) error {
	return dumpNode(w, n, 0)
}

func dumpNode(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		_, err := fmt.Fprintf(w, "%s<nil>\n", indent)
		return err
	}
	sign := "u"
	if n.Signed {
		sign = "s"
	}
	if _, err := fmt.Fprintf(w, "%s%s w=%d %s %s%s\n", indent, n.Kind, n.Width, sign, n.Domain, nodeDetail(n)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := dumpNode(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeDetail(n *Node) string {
	switch n.Kind {
	case ExprConstParam.String():
		return " " + n.Text + "=" + n.Op
	case ExprConcat.String():
		if n.Repeat != 1 {
			return " x" + strconv.FormatUint(uint64(n.Repeat), 10)
		}
		return ""
	case ExprBinary.String():
		if n.Lossless {
			return " " + n.Op + " lossless"
		}
		return " " + n.Op
	case ExprSelect.String(), ExprUnary.String():
		if n.Op != "" {
			return " " + n.Op
		}
		return ""
	}
	if n.Text != "" {
		return " " + n.Text
	}
	return ""
}
