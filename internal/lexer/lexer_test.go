package lexer

import (
	"testing"

	"github.com/acmesh-lang/acmesh/internal/charsrc"
	"github.com/acmesh-lang/acmesh/internal/token"
)

func newLexer(text string) *Lexer {
	return New(charsrc.New(charsrc.NewStringLineSource(text)), nil)
}

func scanAll(t *testing.T, text string) []token.Token {
	t.Helper()
	lx := newLexer(text)
	var toks []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanBareWords(t *testing.T) {
	toks := scanAll(t, "echo hello world")
	got := kinds(toks)
	want := []token.Type{token.Word, token.Word, token.Word, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if toks[1].SpaceBefore != true {
		t.Errorf("second word should have SpaceBefore set")
	}
}

func TestScanSingleCharTokens(t *testing.T) {
	toks := scanAll(t, "a | b ; { c } ( d )")
	got := kinds(toks)
	want := []token.Type{
		token.Word, token.Pipe, token.Word, token.Semicolon,
		token.LBrace, token.Word, token.RBrace,
		token.LParen, token.Word, token.RParen, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanAndOrOperators(t *testing.T) {
	toks := scanAll(t, "a && b || c")
	got := kinds(toks)
	want := []token.Type{token.Word, token.AndAnd, token.Word, token.OrOr, token.Word, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanSingleQuotedNoEscapes(t *testing.T) {
	toks := scanAll(t, `'raw $text \n'`)
	if len(toks) != 2 || toks[0].Kind != token.SingleQuote {
		t.Fatalf("got %v", toks)
	}
	if toks[0].Text != `raw $text \n` {
		t.Errorf("got %q, want raw text unprocessed", toks[0].Text)
	}
}

func TestScanDoubleQuoteIsABareDelimiter(t *testing.T) {
	// The lexer only emits the opening delimiter; assembling the quoted
	// word (including embedded $params) is the parser's job via
	// ScanDoubleQuotedWord.
	lx := newLexer(`"hi"`)
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.DoubleQuote {
		t.Fatalf("got %s, want DoubleQuote", tok.Kind)
	}
	if _, err := lx.ScanDoubleQuotedWord(); err != nil {
		t.Fatalf("ScanDoubleQuotedWord: %v", err)
	}
	tok, err = lx.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.EOF {
		t.Fatalf("got %s, want EOF after consuming the quoted word", tok.Kind)
	}
}

func TestScanNameAfterDollar(t *testing.T) {
	lx := newLexer("$foo_1 bar")
	tok, err := lx.Next()
	if err != nil || tok.Kind != token.Dollar {
		t.Fatalf("got %v, err %v", tok, err)
	}
	name, err := lx.ScanName()
	if err != nil {
		t.Fatalf("ScanName: %v", err)
	}
	if name != "foo_1" {
		t.Errorf("got %q, want foo_1", name)
	}
}

func TestUnterminatedSingleQuoteErrors(t *testing.T) {
	lx := newLexer(`'unterminated`)
	_, err := lx.Next()
	if err == nil {
		t.Fatal("expected an error for an unterminated single-quoted string")
	}
}

func TestErroredLexerLatchesToEOF(t *testing.T) {
	lx := newLexer(`'unterminated`)
	_, err := lx.Next()
	if err == nil {
		t.Fatal("expected an error")
	}
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("a lexer that has already errored must report EOF, not error again: %v", err)
	}
	if tok.Kind != token.EOF {
		t.Fatalf("got %s, want EOF once errored", tok.Kind)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := scanAll(t, "echo hi # a trailing comment\n")
	got := kinds(toks)
	want := []token.Type{token.Word, token.Word, token.Newline, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPipeFollowsSREStage(t *testing.T) {
	// After a Pizza token, only a Pipe/Newline/RBrace/Semicolon/And/EOF may
	// follow directly — anything else is a lex error at the boundary.
	lx := newLexer("|> p\n")
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("unexpected error scanning pizza: %v", err)
	}
	if tok.Kind != token.Pizza {
		t.Fatalf("got %s, want Pizza", tok.Kind)
	}
	tok, err = lx.Next()
	if err != nil {
		t.Fatalf("unexpected error after pizza: %v", err)
	}
	if tok.Kind != token.Newline {
		t.Fatalf("got %s, want Newline", tok.Kind)
	}
}
