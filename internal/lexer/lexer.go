// Package lexer splits Verilog expression text into tokens.
package lexer

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"verilab/internal/diag"
	"verilab/internal/source"
	"verilab/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next consumes a token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}

func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		c := lx.cursor.Peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.cursor.Bump()
		case c == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case c == '/' && lx.cursor.PeekAt(1) == '*':
			start := lx.cursor.Off
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed := false
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					closed = true
					break
				}
				lx.cursor.Bump()
			}
			if !closed {
				lx.report(diag.SynUnclosedDelimiter, lx.cursor.SpanFrom(start), "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()
	start := lx.cursor.Off
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(start)}
	}
	c := lx.cursor.Peek()
	switch {
	case isIdentStart(c):
		return lx.scanIdent(token.Ident)
	case c == '$':
		return lx.scanIdent(token.SysIdent)
	case isDigit(c) || c == '\'':
		return lx.scanNumber()
	case c == '"':
		return lx.scanString()
	}
	return lx.scanOperator()
}

func (lx *Lexer) scanIdent(kind token.Kind) token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump()
	for isIdentContinue(lx.cursor.Peek()) && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
}

// scanNumber handles 23, 8'd3, 8 'hff, 'b1x, 1.5, 2e-3.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	lx.digits(isDigit)
	kind := token.Number

	// вещественное: 1.5, 1e3, 1.5e-3
	if lx.cursor.Peek() == '.' && isDigit(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		lx.digits(isDigit)
		kind = token.Real
	}
	if c := lx.cursor.Peek(); (c == 'e' || c == 'E') && lx.cursor.Off > start {
		save := lx.cursor.Off
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDigit(lx.cursor.Peek()) {
			lx.digits(isDigit)
			kind = token.Real
		} else {
			lx.cursor.Off = save
		}
	}
	if kind == token.Real {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
	}

	// размер отделён от базы пробелами: 8 'd3
	save := lx.cursor.Off
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}
	if !lx.cursor.Eat('\'') {
		lx.cursor.Off = save
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Number, Span: sp, Text: lx.file.Text(sp)}
	}
	if c := lx.cursor.Peek(); c == 's' || c == 'S' {
		lx.cursor.Bump()
	}
	switch lx.cursor.Peek() | 0x20 {
	case 'b', 'o', 'd', 'h':
		lx.cursor.Bump()
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.SynBadNumber, sp, "number base expected after '")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	}
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}
	lx.digits(isBasedDigit)
	sp := lx.cursor.SpanFrom(start)
	text := strings.Join(strings.Fields(lx.file.Text(sp)), "")
	return token.Token{Kind: token.Number, Span: sp, Text: text}
}

func (lx *Lexer) digits(ok func(byte) bool) {
	for !lx.cursor.EOF() && (ok(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump()
	var b strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.SynUnterminatedStr, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp}
		}
		c := lx.cursor.Bump()
		if c == '"' {
			break
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		switch e := lx.cursor.Bump(); e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(e)
		}
	}
	return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(start), Text: norm.NFC.String(b.String())}
}

// operators ordered longest first.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"<<<", token.AShl}, {">>>", token.AShr}, {"===", token.EqEqEq}, {"!==", token.BangEqEq},
	{"**", token.StarStar}, {"&&", token.AndAnd}, {"||", token.OrOr}, {"<<", token.Shl}, {">>", token.Shr},
	{"<=", token.LtEq}, {">=", token.GtEq}, {"==", token.EqEq}, {"!=", token.BangEq},
	{"~&", token.TildeAmp}, {"~|", token.TildePipe}, {"~^", token.Xnor}, {"^~", token.Xnor},
	{"+:", token.PlusColon}, {"-:", token.MinColon},
	{"(", token.LParen}, {")", token.RParen}, {"[", token.LBracket}, {"]", token.RBracket},
	{"{", token.LBrace}, {"}", token.RBrace}, {",", token.Comma}, {".", token.Dot}, {":", token.Colon},
	{"?", token.Question}, {"+", token.Plus}, {"-", token.Minus}, {"*", token.Star}, {"/", token.Slash},
	{"%", token.Percent}, {"&", token.Amp}, {"|", token.Pipe}, {"^", token.Caret}, {"~", token.Tilde},
	{"!", token.Bang}, {"<", token.Lt}, {">", token.Gt},
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Off
	rest := lx.file.Content[start:lx.cursor.Limit]
	for _, op := range operators {
		if strings.HasPrefix(string(rest[:min(len(rest), 3)]), op.text) {
			lx.cursor.Off += uint32(len(op.text)) //nolint:gosec // G115: operators are at most 3 bytes
			return token.Token{Kind: op.kind, Span: lx.cursor.SpanFrom(start), Text: op.text}
		}
	}
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.SynUnknownChar, sp, "unexpected character "+quoteByte(rest[0]))
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(rest[:1])}
}

func quoteByte(b byte) string {
	return strconv.QuoteRune(rune(b))
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBasedDigit(c byte) bool {
	switch {
	case isDigit(c), c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return true
	}
	switch c {
	case 'x', 'X', 'z', 'Z', '?':
		return true
	}
	return false
}
