package ast

import (
	"strings"

	"verilab/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprNumber
	ExprReal
	ExprString
	ExprUnary
	ExprBinary
	ExprCompare
	ExprShift
	ExprTernary
	ExprConcat
	ExprCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "ident"
	case ExprNumber:
		return "number"
	case ExprReal:
		return "real"
	case ExprString:
		return "string"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprCompare:
		return "compare"
	case ExprShift:
		return "shift"
	case ExprTernary:
		return "ternary"
	case ExprConcat:
		return "concat"
	case ExprCall:
		return "call"
	}
	return "invalid"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// Index is one bracketed select. For SelBit only Msb is set; for the
// indexed forms Msb is the base and Lsb the width.
type Index struct {
	Sel  SelectKind
	Msb  ExprID
	Lsb  ExprID
	Span source.Span
}

// NameComponent is one dotted element of a hierarchical name.
type NameComponent struct {
	Name  string
	Index []Index
}

// Path is a hierarchical name: top.u1.w[3][7:0].
type Path []NameComponent

// Names drops the indices.
func (p Path) Names() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Name
	}
	return out
}

// Last returns the final component.
func (p Path) Last() NameComponent {
	if len(p) == 0 {
		return NameComponent{}
	}
	return p[len(p)-1]
}

func (p Path) String() string {
	return strings.Join(p.Names(), ".")
}

type ExprIdentData struct {
	Path Path
}

type ExprNumberData struct {
	Text string
}

type ExprRealData struct {
	Text  string
	Value float64
}

type ExprStringData struct {
	Value string
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprTernaryData struct {
	Cond  ExprID
	True  ExprID
	False ExprID
}

// ExprConcatData: Repeat is NoExprID for a plain concatenation. Parts may
// hold NoExprID for an empty slot ({a,,b}).
type ExprConcatData struct {
	Repeat ExprID
	Parts  []ExprID
}

// ExprCallData: Args may hold NoExprID for empty arguments.
type ExprCallData struct {
	Path Path
	Args []ExprID
}

// System reports a $name call.
func (c *ExprCallData) System() bool {
	return len(c.Path) == 1 && strings.HasPrefix(c.Path[0].Name, "$")
}

// Exprs owns every expression node of one parse.
type Exprs struct {
	Arena     *Arena[Expr]
	Idents    *Arena[ExprIdentData]
	Numbers   *Arena[ExprNumberData]
	Reals     *Arena[ExprRealData]
	Strings   *Arena[ExprStringData]
	Unaries   *Arena[ExprUnaryData]
	Binaries  *Arena[ExprBinaryData]
	Ternaries *Arena[ExprTernaryData]
	Concats   *Arena[ExprConcatData]
	Calls     *Arena[ExprCallData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Idents:    NewArena[ExprIdentData](capHint),
		Numbers:   NewArena[ExprNumberData](capHint),
		Reals:     NewArena[ExprRealData](0),
		Strings:   NewArena[ExprStringData](0),
		Unaries:   NewArena[ExprUnaryData](capHint),
		Binaries:  NewArena[ExprBinaryData](capHint),
		Ternaries: NewArena[ExprTernaryData](0),
		Concats:   NewArena[ExprConcatData](0),
		Calls:     NewArena[ExprCallData](0),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewIdent(span source.Span, path Path) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Path: path}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewNumber(span source.Span, text string) ExprID {
	return e.new(ExprNumber, span, e.Numbers.Allocate(ExprNumberData{Text: text}))
}

func (e *Exprs) Number(id ExprID) (*ExprNumberData, bool) {
	p, ok := e.payload(id, ExprNumber)
	if !ok {
		return nil, false
	}
	return e.Numbers.Get(p), true
}

func (e *Exprs) NewReal(span source.Span, text string, value float64) ExprID {
	return e.new(ExprReal, span, e.Reals.Allocate(ExprRealData{Text: text, Value: value}))
}

func (e *Exprs) Real(id ExprID) (*ExprRealData, bool) {
	p, ok := e.payload(id, ExprReal)
	if !ok {
		return nil, false
	}
	return e.Reals.Get(p), true
}

func (e *Exprs) NewString(span source.Span, value string) ExprID {
	return e.new(ExprString, span, e.Strings.Allocate(ExprStringData{Value: value}))
}

func (e *Exprs) StringLit(id ExprID) (*ExprStringData, bool) {
	p, ok := e.payload(id, ExprString)
	if !ok {
		return nil, false
	}
	return e.Strings.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

// NewBinary picks ExprCompare / ExprShift / ExprBinary from the operator.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	kind := ExprBinary
	switch {
	case op.IsCompare():
		kind = ExprCompare
	case op.IsShift():
		kind = ExprShift
	}
	return e.new(kind, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

// Binary returns the payload of any of the three binary-shaped kinds.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ExprBinary, ExprCompare, ExprShift:
		return e.Binaries.Get(uint32(expr.Payload)), true
	}
	return nil, false
}

func (e *Exprs) NewTernary(span source.Span, cond, t, f ExprID) ExprID {
	return e.new(ExprTernary, span, e.Ternaries.Allocate(ExprTernaryData{Cond: cond, True: t, False: f}))
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	p, ok := e.payload(id, ExprTernary)
	if !ok {
		return nil, false
	}
	return e.Ternaries.Get(p), true
}

func (e *Exprs) NewConcat(span source.Span, repeat ExprID, parts []ExprID) ExprID {
	return e.new(ExprConcat, span, e.Concats.Allocate(ExprConcatData{Repeat: repeat, Parts: parts}))
}

func (e *Exprs) Concat(id ExprID) (*ExprConcatData, bool) {
	p, ok := e.payload(id, ExprConcat)
	if !ok {
		return nil, false
	}
	return e.Concats.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, path Path, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Path: path, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}
