// Package token defines the lexical tokens of Verilog expressions.
package token

import "verilab/internal/source"

// Kind represents the category of a token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident    // w, top
	SysIdent // $bits
	Number   // 23, 8'd3, 'hff
	Real     // 1.5, 2e3
	String   // "abc"

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Dot       // .
	Colon     // :
	Question  // ?
	PlusColon // +:
	MinColon  // -:

	Plus      // +
	Minus     // -
	Star      // *
	StarStar  // **
	Slash     // /
	Percent   // %
	Amp       // &
	Pipe      // |
	Caret     // ^
	Tilde     // ~
	TildeAmp  // ~&
	TildePipe // ~|
	Xnor      // ~^ or ^~
	Bang      // !
	AndAnd    // &&
	OrOr      // ||
	Shl       // <<
	Shr       // >>
	AShl      // <<<
	AShr      // >>>
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	EqEq      // ==
	BangEq    // !=
	EqEqEq    // ===
	BangEqEq  // !==
)

var kindNames = [...]string{
	Invalid: "invalid", EOF: "end of input",
	Ident: "identifier", SysIdent: "system identifier", Number: "number", Real: "real number", String: "string",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Dot: ".", Colon: ":", Question: "?", PlusColon: "+:", MinColon: "-:",
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", Percent: "%",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", TildeAmp: "~&", TildePipe: "~|", Xnor: "~^", Bang: "!",
	AndAnd: "&&", OrOr: "||", Shl: "<<", Shr: ">>", AShl: "<<<", AShr: ">>>",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", EqEq: "==", BangEq: "!=", EqEqEq: "===", BangEqEq: "!==",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Token is a single lexeme. For String tokens Text holds the decoded value.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a number, real or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, Real, String:
		return true
	}
	return false
}
