// Package parser builds ast expressions from Verilog expression text.
// It accepts the expression sub-language only: no statements, no modules.
package parser

import (
	"strconv"

	"verilab/internal/ast"
	"verilab/internal/diag"
	"verilab/internal/lexer"
	"verilab/internal/source"
	"verilab/internal/token"
	"verilab/internal/vnum"
)

type Options struct {
	Reporter diag.Reporter
}

type Parser struct {
	lx       *lexer.Lexer
	exprs    *ast.Exprs
	opts     Options
	lastSpan source.Span
	failed   bool
}

// ParseExpr parses the whole file as one expression into exprs. ok is false
// when any syntax error was reported.
func ParseExpr(file *source.File, exprs *ast.Exprs, opts Options) (ast.ExprID, bool) {
	p := &Parser{exprs: exprs, opts: opts}
	p.lx = lexer.New(file, lexer.Options{Reporter: failReporter{opts.Reporter, &p.failed}})
	id := p.parseExpr()
	if tok := p.lx.Peek(); tok.Kind != token.EOF && !p.failed {
		p.errorf(diag.SynTrailingInput, tok.Span, "unexpected %s after expression", tok.Kind)
	}
	return id, !p.failed && id.IsValid()
}

// failReporter marks the parse as failed on any error from the lexer.
type failReporter struct {
	next   diag.Reporter
	failed *bool
}

func (r failReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError && r.failed != nil {
		*r.failed = true
	}
	if r.next != nil {
		r.next.Report(code, sev, sp, msg, notes)
	}
}

func (p *Parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	p.failed = true
	if p.opts.Reporter == nil {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, sprintf(format, args...)).Emit()
}

func (p *Parser) next() token.Token {
	tok := p.lx.Next()
	p.lastSpan = tok.Span
	return tok
}

func (p *Parser) at(kind token.Kind) bool {
	return p.lx.Peek().Kind == kind
}

func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind, open source.Span) bool {
	if p.eat(kind) {
		return true
	}
	tok := p.lx.Peek()
	p.errorf(diag.SynUnclosedDelimiter, tok.Span, "expected %s, found %s", kind, tok.Kind)
	if p.opts.Reporter != nil && !open.Empty() {
		diag.ReportInfo(p.opts.Reporter, diag.SynInfo, open, "opened here").Emit()
	}
	return false
}

func (p *Parser) parseExpr() ast.ExprID {
	return p.parseTernary()
}

// parseTernary: cond ? a : b, правоассоциативный.
func (p *Parser) parseTernary() ast.ExprID {
	cond := p.parseBinary(precLogicalOr)
	if !cond.IsValid() || !p.at(token.Question) {
		return cond
	}
	q := p.next()
	t := p.parseTernary()
	if !p.expect(token.Colon, q.Span) {
		return ast.NoExprID
	}
	f := p.parseTernary()
	if !t.IsValid() || !f.IsValid() {
		return ast.NoExprID
	}
	span := p.exprs.Get(cond).Span.Cover(p.exprs.Get(f).Span)
	return p.exprs.NewTernary(span, cond, t, f)
}

func (p *Parser) parseBinary(minPrec int) ast.ExprID {
	left := p.parseUnary()
	for left.IsValid() {
		info, ok := binaryOps[p.lx.Peek().Kind]
		if !ok || info.prec < minPrec {
			return left
		}
		p.next()
		next := info.prec + 1
		if info.op == ast.OpPow {
			next = info.prec
		}
		right := p.parseBinary(next)
		if !right.IsValid() {
			return ast.NoExprID
		}
		span := p.exprs.Get(left).Span.Cover(p.exprs.Get(right).Span)
		left = p.exprs.NewBinary(span, info.op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.ExprID {
	if op, ok := unaryOps[p.lx.Peek().Kind]; ok {
		tok := p.next()
		operand := p.parseUnary()
		if !operand.IsValid() {
			return ast.NoExprID
		}
		return p.exprs.NewUnary(tok.Span.Cover(p.exprs.Get(operand).Span), op, operand)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Number:
		p.next()
		if _, err := vnum.Parse(tok.Text); err != nil {
			p.errorf(diag.SynBadNumber, tok.Span, "%v", err)
			return ast.NoExprID
		}
		return p.exprs.NewNumber(tok.Span, tok.Text)
	case token.Real:
		p.next()
		v, err := strconv.ParseFloat(stripUnderscores(tok.Text), 64)
		if err != nil {
			p.errorf(diag.SynBadNumber, tok.Span, "malformed real number %q", tok.Text)
			return ast.NoExprID
		}
		return p.exprs.NewReal(tok.Span, tok.Text, v)
	case token.String:
		p.next()
		return p.exprs.NewString(tok.Span, tok.Text)
	case token.LParen:
		open := p.next()
		inner := p.parseExpr()
		if !p.expect(token.RParen, open.Span) {
			return ast.NoExprID
		}
		return inner
	case token.LBrace:
		return p.parseConcat()
	case token.SysIdent:
		p.next()
		path := ast.Path{{Name: tok.Text}}
		if !p.at(token.LParen) {
			return p.exprs.NewCall(tok.Span, path, nil)
		}
		return p.parseCall(tok.Span, path)
	case token.Ident:
		return p.parseIdentOrCall()
	case token.Invalid:
		p.next()
		return ast.NoExprID
	}
	p.errorf(diag.SynExpectExpression, tok.Span, "expected expression, found %s", tok.Kind)
	return ast.NoExprID
}

// parseIdentOrCall: a.b[3].c[7:0] или f(x, y).
func (p *Parser) parseIdentOrCall() ast.ExprID {
	first := p.lx.Peek().Span
	var path ast.Path
	for {
		tok := p.next()
		if tok.Kind != token.Ident {
			p.errorf(diag.SynUnexpectedToken, tok.Span, "expected identifier, found %s", tok.Kind)
			return ast.NoExprID
		}
		comp := ast.NameComponent{Name: tok.Text}
		for p.at(token.LBracket) {
			idx, ok := p.parseIndex()
			if !ok {
				return ast.NoExprID
			}
			comp.Index = append(comp.Index, idx)
		}
		path = append(path, comp)
		if !p.eat(token.Dot) {
			break
		}
	}
	span := first.Cover(p.lastSpan)
	if p.at(token.LParen) && len(path.Last().Index) == 0 {
		return p.parseCall(span, path)
	}
	return p.exprs.NewIdent(span, path)
}

func (p *Parser) parseIndex() (ast.Index, bool) {
	open := p.next()
	msb := p.parseExpr()
	if !msb.IsValid() {
		return ast.Index{}, false
	}
	idx := ast.Index{Sel: ast.SelBit, Msb: msb}
	switch {
	case p.eat(token.Colon):
		idx.Sel = ast.SelPart
	case p.eat(token.PlusColon):
		idx.Sel = ast.SelIdxUp
	case p.eat(token.MinColon):
		idx.Sel = ast.SelIdxDown
	}
	if idx.Sel != ast.SelBit {
		idx.Lsb = p.parseExpr()
		if !idx.Lsb.IsValid() {
			return ast.Index{}, false
		}
	}
	if !p.expect(token.RBracket, open.Span) {
		return ast.Index{}, false
	}
	idx.Span = open.Span.Cover(p.lastSpan)
	return idx, true
}

// parseList reads comma separated expressions up to close. Empty slots are
// kept as NoExprID; "()" yields a single empty slot.
func (p *Parser) parseList(close token.Kind, open source.Span) ([]ast.ExprID, bool) {
	var out []ast.ExprID
	for {
		if p.at(token.Comma) || p.at(close) {
			out = append(out, ast.NoExprID)
		} else {
			id := p.parseExpr()
			if !id.IsValid() {
				return nil, false
			}
			out = append(out, id)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expect(close, open) {
		return nil, false
	}
	return out, true
}

func (p *Parser) parseCall(start source.Span, path ast.Path) ast.ExprID {
	open := p.next()
	args, ok := p.parseList(token.RParen, open.Span)
	if !ok {
		return ast.NoExprID
	}
	return p.exprs.NewCall(start.Cover(p.lastSpan), path, args)
}

// parseConcat: {a, b} или {n{a, b}}.
func (p *Parser) parseConcat() ast.ExprID {
	open := p.next()
	if p.at(token.RBrace) {
		p.next()
		return p.exprs.NewConcat(open.Span.Cover(p.lastSpan), ast.NoExprID, nil)
	}
	if p.at(token.Comma) {
		parts, ok := p.parseList(token.RBrace, open.Span)
		if !ok {
			return ast.NoExprID
		}
		return p.exprs.NewConcat(open.Span.Cover(p.lastSpan), ast.NoExprID, parts)
	}
	first := p.parseExpr()
	if !first.IsValid() {
		return ast.NoExprID
	}
	if p.at(token.LBrace) {
		inner := p.next()
		parts, ok := p.parseList(token.RBrace, inner.Span)
		if !ok || !p.expect(token.RBrace, open.Span) {
			return ast.NoExprID
		}
		return p.exprs.NewConcat(open.Span.Cover(p.lastSpan), first, parts)
	}
	parts := []ast.ExprID{first}
	if p.eat(token.Comma) {
		rest, ok := p.parseList(token.RBrace, open.Span)
		if !ok {
			return ast.NoExprID
		}
		parts = append(parts, rest...)
	} else if !p.expect(token.RBrace, open.Span) {
		return ast.NoExprID
	}
	return p.exprs.NewConcat(open.Span.Cover(p.lastSpan), ast.NoExprID, parts)
}
