package parser

import (
	"verilab/internal/ast"
	"verilab/internal/token"
)

// Приоритеты бинарных операторов Verilog, чем больше, тем сильнее связывает.
const (
	precTernary    = 1  // ?:
	precLogicalOr  = 2  // ||
	precLogicalAnd = 3  // &&
	precBitOr      = 4  // | ~|
	precBitXor     = 5  // ^ ~^
	precBitAnd     = 6  // & ~&
	precEquality   = 7  // == != === !==
	precRelational = 8  // < <= > >=
	precShift      = 9  // << >> <<< >>>
	precAdditive   = 10 // + -
	precMul        = 11 // * / %
	precPower      = 12 // **
)

var binaryOps = map[token.Kind]struct {
	op   ast.BinaryOp
	prec int
}{
	token.OrOr:      {ast.OpLogOr, precLogicalOr},
	token.AndAnd:    {ast.OpLogAnd, precLogicalAnd},
	token.Pipe:      {ast.OpBitOr, precBitOr},
	token.TildePipe: {ast.OpBitNor, precBitOr},
	token.Caret:     {ast.OpBitXor, precBitXor},
	token.Xnor:      {ast.OpBitXnor, precBitXor},
	token.Amp:       {ast.OpBitAnd, precBitAnd},
	token.TildeAmp:  {ast.OpBitNand, precBitAnd},
	token.EqEq:      {ast.OpEq, precEquality},
	token.BangEq:    {ast.OpNe, precEquality},
	token.EqEqEq:    {ast.OpCaseEq, precEquality},
	token.BangEqEq:  {ast.OpCaseNe, precEquality},
	token.Lt:        {ast.OpLt, precRelational},
	token.LtEq:      {ast.OpLe, precRelational},
	token.Gt:        {ast.OpGt, precRelational},
	token.GtEq:      {ast.OpGe, precRelational},
	token.Shl:       {ast.OpShl, precShift},
	token.Shr:       {ast.OpShr, precShift},
	token.AShl:      {ast.OpAShl, precShift},
	token.AShr:      {ast.OpAShr, precShift},
	token.Plus:      {ast.OpAdd, precAdditive},
	token.Minus:     {ast.OpSub, precAdditive},
	token.Star:      {ast.OpMul, precMul},
	token.Slash:     {ast.OpDiv, precMul},
	token.Percent:   {ast.OpMod, precMul},
	token.StarStar:  {ast.OpPow, precPower},
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Plus:      ast.UnPlus,
	token.Minus:     ast.UnMinus,
	token.Bang:      ast.UnLogNot,
	token.Tilde:     ast.UnBitNot,
	token.Amp:       ast.UnRedAnd,
	token.Pipe:      ast.UnRedOr,
	token.Caret:     ast.UnRedXor,
	token.TildeAmp:  ast.UnRedNand,
	token.TildePipe: ast.UnRedNor,
	token.Xnor:      ast.UnRedXnor,
}
