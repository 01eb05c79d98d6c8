package lexer_test

import (
	"testing"

	"verilab/internal/diag"
	"verilab/internal/lexer"
	"verilab/internal/source"
	"verilab/internal/token"
)

func lexAll(t *testing.T, text string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.v", []byte(text))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, bag
		}
	}
}

func TestLexExpression(t *testing.T) {
	toks, bag := lexAll(t, "w[a+:4] <<< 8 'sd3 ~^ $bits(x) // tail")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []struct {
		kind token.Kind
		text string
	}{
		{token.Ident, "w"}, {token.LBracket, "["}, {token.Ident, "a"}, {token.PlusColon, "+:"},
		{token.Number, "4"}, {token.RBracket, "]"}, {token.AShl, "<<<"}, {token.Number, "8'sd3"},
		{token.Xnor, "~^"}, {token.SysIdent, "$bits"}, {token.LParen, "("}, {token.Ident, "x"},
		{token.RParen, ")"}, {token.EOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d = %s %q, want %s %q", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestLexNumbersAndStrings(t *testing.T) {
	toks, bag := lexAll(t, `'hFF 1.5 2e3 12_000 "a\tb" 4'b1x?z`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	kinds := []token.Kind{token.Number, token.Real, token.Real, token.Number, token.String, token.Number, token.EOF}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[4].Text != "a\tb" {
		t.Errorf("string text = %q", toks[4].Text)
	}
	if toks[5].Text != "4'b1x?z" {
		t.Errorf("based text = %q", toks[5].Text)
	}
}

func TestLexErrors(t *testing.T) {
	_, bag := lexAll(t, "a # \"open")
	if bag.Len() != 2 {
		t.Fatalf("want 2 diagnostics, got %d", bag.Len())
	}
	items := bag.Items()
	if items[0].Code != diag.SynUnknownChar || items[1].Code != diag.SynUnterminatedStr {
		t.Fatalf("codes = %v, %v", items[0].Code, items[1].Code)
	}
}
