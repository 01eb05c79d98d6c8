package ast

// BinaryOp covers arithmetic, bitwise, logical, shift and relational
// operators. The node kind (ExprBinary, ExprCompare, ExprShift) says which
// family an operator belongs to.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitXnor
	OpBitNand
	OpBitNor
	OpLogAnd
	OpLogOr
	OpMin
	OpMax

	OpShl
	OpShr
	OpAShl
	OpAShr

	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpCaseEq
	OpCaseNe
)

var binaryOpText = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "**",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^", OpBitXnor: "~^", OpBitNand: "~&", OpBitNor: "~|",
	OpLogAnd: "&&", OpLogOr: "||", OpMin: "<?", OpMax: ">?",
	OpShl: "<<", OpShr: ">>", OpAShl: "<<<", OpAShr: ">>>",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpEq: "==", OpNe: "!=", OpCaseEq: "===", OpCaseNe: "!==",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpText[op]; ok {
		return s
	}
	return "?"
}

// IsCompare reports relational and equality operators.
func (op BinaryOp) IsCompare() bool { return op >= OpLt && op <= OpCaseNe }

// IsShift reports shift operators.
func (op BinaryOp) IsShift() bool { return op >= OpShl && op <= OpAShr }

type UnaryOp uint8

const (
	UnPlus UnaryOp = iota + 1
	UnMinus
	UnLogNot
	UnBitNot
	UnRedAnd
	UnRedOr
	UnRedXor
	UnRedNand
	UnRedNor
	UnRedXnor
)

var unaryOpText = map[UnaryOp]string{
	UnPlus: "+", UnMinus: "-", UnLogNot: "!", UnBitNot: "~",
	UnRedAnd: "&", UnRedOr: "|", UnRedXor: "^", UnRedNand: "~&", UnRedNor: "~|", UnRedXnor: "~^",
}

func (op UnaryOp) String() string {
	if s, ok := unaryOpText[op]; ok {
		return s
	}
	return "?"
}

// IsReduction reports the reduction operators.
func (op UnaryOp) IsReduction() bool { return op >= UnRedAnd && op <= UnRedXnor }

// SelectKind describes one index component of an identifier.
type SelectKind uint8

const (
	SelBit SelectKind = iota + 1 // [msb]
	SelPart                      // [msb:lsb]
	SelIdxUp                     // [base +: width]
	SelIdxDown                   // [base -: width]
)

func (k SelectKind) String() string {
	switch k {
	case SelBit:
		return "bit"
	case SelPart:
		return "part"
	case SelIdxUp:
		return "+:"
	case SelIdxDown:
		return "-:"
	}
	return "?"
}
