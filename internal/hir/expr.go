package hir

import (
	"verilab/internal/ast"
	"verilab/internal/source"
	"verilab/internal/symbols"
	"verilab/internal/vnum"
)

// ExprKind enumerates elaborated expression kinds.
type ExprKind uint8

const (
	ExprConst ExprKind = iota
	// ExprConstParam is a constant that remembers the parameter it came from.
	ExprConstParam
	ExprConstReal
	ExprSignal
	ExprScope
	ExprEvent
	// ExprSelect extracts Width bits of Base starting at Offset. A nil
	// Offset means Base is resized (padded) to Width.
	ExprSelect
	ExprConcat
	ExprTernary
	ExprUnary
	ExprBinary
	ExprUserCall
	ExprSysCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprConst:
		return "Const"
	case ExprConstParam:
		return "ConstParam"
	case ExprConstReal:
		return "ConstReal"
	case ExprSignal:
		return "Signal"
	case ExprScope:
		return "Scope"
	case ExprEvent:
		return "Event"
	case ExprSelect:
		return "Select"
	case ExprConcat:
		return "Concat"
	case ExprTernary:
		return "Ternary"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprUserCall:
		return "UserCall"
	case ExprSysCall:
		return "SysCall"
	default:
		return "Unknown"
	}
}

// Expr is an elaborated expression: every node knows its width,
// signedness and value domain.
type Expr struct {
	Kind   ExprKind
	Width  uint32
	Signed bool
	Domain vnum.Domain
	Span   source.Span
	Data   ExprData
}

// ExprData is the kind-specific payload.
type ExprData interface {
	exprData()
}

type ConstData struct {
	Value vnum.Value
}

func (ConstData) exprData() {}

type ConstParamData struct {
	Value vnum.Value
	Param *symbols.Param
	Scope symbols.ScopeID
}

func (ConstParamData) exprData() {}

type ConstRealData struct {
	Value float64
}

func (ConstRealData) exprData() {}

// SignalData references a signal. Word selects an array element and is
// nil for scalars and for whole arrays passed to system tasks.
type SignalData struct {
	Signal *symbols.Signal
	Word   *Expr
}

func (SignalData) exprData() {}

type ScopeData struct {
	Scope symbols.ScopeID
	Name  string
}

func (ScopeData) exprData() {}

type EventData struct {
	Event *symbols.Event
}

func (EventData) exprData() {}

type SelectData struct {
	Base   *Expr
	Offset *Expr
}

func (SelectData) exprData() {}

type ConcatData struct {
	Parts  []*Expr // most significant first
	Repeat uint32
}

func (ConcatData) exprData() {}

type TernaryData struct {
	Cond  *Expr
	True  *Expr
	False *Expr
}

func (TernaryData) exprData() {}

// UnaryClass groups unary operators by how they size their result.
type UnaryClass uint8

const (
	UnaryGeneric UnaryClass = iota // -, +, !
	UnaryReduce                    // &, |, ^ and their negations
	UnaryBits                      // ~
)

type UnaryData struct {
	Op      ast.UnaryOp
	Class   UnaryClass
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryClass groups binary operators by width and sign rules.
type BinaryClass uint8

const (
	BinaryBits BinaryClass = iota
	BinaryAdd
	BinaryMult
	BinaryDiv
	BinaryPow
	BinaryShift
	BinaryCompare
	BinaryLogic
	BinaryMinMax
)

func (c BinaryClass) String() string {
	switch c {
	case BinaryBits:
		return "bits"
	case BinaryAdd:
		return "add"
	case BinaryMult:
		return "mult"
	case BinaryDiv:
		return "div"
	case BinaryPow:
		return "pow"
	case BinaryShift:
		return "shift"
	case BinaryCompare:
		return "compare"
	case BinaryLogic:
		return "logic"
	case BinaryMinMax:
		return "minmax"
	}
	return "unknown"
}

// ClassOf maps a source operator onto its class.
func ClassOf(op ast.BinaryOp) BinaryClass {
	switch op {
	case ast.OpAdd, ast.OpSub:
		return BinaryAdd
	case ast.OpMul:
		return BinaryMult
	case ast.OpDiv, ast.OpMod:
		return BinaryDiv
	case ast.OpPow:
		return BinaryPow
	case ast.OpShl, ast.OpShr, ast.OpAShl, ast.OpAShr:
		return BinaryShift
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe, ast.OpCaseEq, ast.OpCaseNe:
		return BinaryCompare
	case ast.OpLogAnd, ast.OpLogOr:
		return BinaryLogic
	case ast.OpMin, ast.OpMax:
		return BinaryMinMax
	default:
		return BinaryBits
	}
}

// BinaryData: Lossless marks add/sub nodes widened by one bit so the
// carry survives.
type BinaryData struct {
	Op       ast.BinaryOp
	Class    BinaryClass
	Left     *Expr
	Right    *Expr
	Lossless bool
}

func (BinaryData) exprData() {}

// UserCallData: Result is the return signal of Func.
type UserCallData struct {
	Func   *symbols.Function
	Result *symbols.Signal
	Args   []*Expr
}

func (UserCallData) exprData() {}

type SysCallData struct {
	Name string
	Args []*Expr
}

func (SysCallData) exprData() {}
