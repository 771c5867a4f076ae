package srelex

import (
	"testing"

	"github.com/acmesh-lang/acmesh/internal/charsrc"
	"github.com/acmesh-lang/acmesh/internal/escape"
)

func newSource(text string) *charsrc.Source {
	return charsrc.New(charsrc.NewStringLineSource(text))
}

func TestLexAddressStopsAtCommandLetter(t *testing.T) {
	toks, err := LexAddress(newSource("2p"))
	if err != nil {
		t.Fatalf("LexAddress: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != TLineAddr || toks[0].Num != 2 {
		t.Errorf("got %+v, want a single line address token for 2", toks)
	}
}

func TestLexAddressStopsAtPipe(t *testing.T) {
	toks, err := LexAddress(newSource("1,2|p"))
	if err != nil {
		t.Fatalf("LexAddress: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3 (line, comma, line)", len(toks))
	}
	if toks[1].Kind != TComma {
		t.Errorf("got %+v at index 1, want a comma", toks[1])
	}
}

func TestLexAddressEmptyWhenNoAddressTokens(t *testing.T) {
	toks, err := LexAddress(newSource("p"))
	if err != nil {
		t.Fatalf("LexAddress: %v", err)
	}
	if len(toks) != 0 {
		t.Errorf("got %+v, want no address tokens before a bare command letter", toks)
	}
}

func TestLexAddressRegexAndDollar(t *testing.T) {
	toks, err := LexAddress(newSource("/foo/,$p"))
	if err != nil {
		t.Fatalf("LexAddress: %v", err)
	}
	if len(toks) != 3 || toks[0].Kind != TRegexp || toks[0].Text != "foo" {
		t.Fatalf("got %+v", toks)
	}
	if toks[1].Kind != TComma || toks[2].Kind != TDollar {
		t.Fatalf("got %+v, want comma then dollar", toks[1:])
	}
}

func TestLexAddressUnclosedRegexErrors(t *testing.T) {
	if _, err := LexAddress(newSource("/unterminated")); err == nil {
		t.Fatal("expected an unclosed-regex error")
	}
}

func TestLexAddressBackwardsRegexp(t *testing.T) {
	toks, err := LexAddress(newSource("?back?p"))
	if err != nil {
		t.Fatalf("LexAddress: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != TBackwardsRegexp || toks[0].Text != "back" {
		t.Errorf("got %+v", toks)
	}
}

func TestReadArgUnescapesContent(t *testing.T) {
	src := newSource(`/line one\nline two/`)
	arg, err := ReadArg(src, escape.Unescape)
	if err != nil {
		t.Fatalf("ReadArg: %v", err)
	}
	if arg != "line one\nline two" {
		t.Errorf("got %q, want the \\n escape expanded", arg)
	}
}

func TestReadArgUnterminatedErrors(t *testing.T) {
	src := newSource("/no closing slash")
	if _, err := ReadArg(src, escape.Unescape); err == nil {
		t.Fatal("expected an unterminated-argument error")
	}
}
