// Package srelex is the SRE sub-lexer (component C): it scans the address
// tokens and raw slash-delimited command arguments that appear after a `|>`
// pizza operator. It is invoked mid-stream by the main lexer, never
// standalone.
package srelex

import (
	"strings"

	"github.com/acmesh-lang/acmesh/internal/charsrc"
	"github.com/acmesh-lang/acmesh/internal/synerr"
)

// AddrTokenKind identifies one token of the address sub-grammar.
type AddrTokenKind int

const (
	TCharAddress AddrTokenKind = iota
	TLineAddr
	TRegexp
	TBackwardsRegexp
	TDot
	TPlus
	TMinus
	TComma
	TSemicolon
	TDollar
)

// AddrToken is one scanned address token; Num is valid for TCharAddress and
// TLineAddr, Text is valid for TRegexp/TBackwardsRegexp (without delimiters).
type AddrToken struct {
	Kind AddrTokenKind
	Num  int
	Text string
}

// LexAddress scans a maximal run of address tokens, stopping (without
// consuming) at '\n', '|', or any character that doesn't start an address
// atom — the latter is presumably the SRE command letter.
func LexAddress(cs *charsrc.Source) ([]AddrToken, error) {
	var out []AddrToken
	for {
		c, ok := cs.Peek()
		if !ok || c == '\n' || c == '|' {
			break
		}
		switch {
		case isSpace(c):
			scanSpace(cs)
		case c == '#':
			out = append(out, scanAddress(cs, true))
		case c >= '0' && c <= '9':
			out = append(out, scanAddress(cs, false))
		case c == '/':
			tok, err := scanRegexp(cs, false)
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		case c == '?':
			tok, err := scanRegexp(cs, true)
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		case c == '.':
			cs.Advance()
			out = append(out, AddrToken{Kind: TDot})
		case c == '+':
			cs.Advance()
			out = append(out, AddrToken{Kind: TPlus})
		case c == '-':
			cs.Advance()
			out = append(out, AddrToken{Kind: TMinus})
		case c == ',':
			cs.Advance()
			out = append(out, AddrToken{Kind: TComma})
		case c == ';':
			cs.Advance()
			out = append(out, AddrToken{Kind: TSemicolon})
		case c == '$':
			cs.Advance()
			out = append(out, AddrToken{Kind: TDollar})
		default:
			return out, nil
		}
	}
	return out, nil
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f'
}

func scanSpace(cs *charsrc.Source) {
	for {
		c, ok := cs.Peek()
		if !ok || !isSpace(c) {
			return
		}
		cs.Advance()
	}
}

func scanAddress(cs *charsrc.Source, isChar bool) AddrToken {
	if isChar {
		cs.Advance() // '#'
	}
	num := 0
	sawDigit := false
	for {
		c, ok := cs.Peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		num = num*10 + int(c-'0')
		sawDigit = true
		cs.Advance()
	}
	if !sawDigit {
		num = 1
	}
	if isChar {
		return AddrToken{Kind: TCharAddress, Num: num}
	}
	return AddrToken{Kind: TLineAddr, Num: num}
}

// scanRegexp scans a delimited regex body (delimiter '/' or '?'), honoring
// backslash escapes of the delimiter itself, and returns the body text
// without the surrounding delimiters.
func scanRegexp(cs *charsrc.Source, reverse bool) (AddrToken, error) {
	delim := byte('/')
	if reverse {
		delim = '?'
	}
	cs.Advance() // opening delimiter
	var sb strings.Builder
	closed := false
	for {
		c, ok := cs.Peek()
		if !ok {
			break
		}
		if rune(delim) == c {
			closed = true
			break
		}
		if c == '\\' {
			cs.Advance()
			next, ok := cs.Peek()
			if !ok {
				break
			}
			sb.WriteRune('\\')
			sb.WriteRune(next)
			cs.Advance()
			continue
		}
		sb.WriteRune(c)
		cs.Advance()
	}
	if !closed {
		return AddrToken{}, cs.NewError("unclosed regex")
	}
	cs.Advance() // closing delimiter
	kind := TRegexp
	if reverse {
		kind = TBackwardsRegexp
	}
	return AddrToken{Kind: kind, Text: sb.String()}, nil
}

// ReadArg reads one slash-delimited SRE command argument (e.g. the `text`
// in `a/text/`), honoring the shared escape table. The opening '/' must be
// the current character; the closing '/' is consumed.
func ReadArg(cs *charsrc.Source, unescape func(rune) rune) (string, error) {
	scanSpace(cs)
	cs.Advance() // '/'
	var sb strings.Builder
	escaping := false
	for {
		c, ok := cs.Peek()
		if !ok {
			if escaping {
				return "", cs.NewError("unexpected EOF while escaping")
			}
			return "", synerr.New(cs.Position(), "unterminated SRE argument")
		}
		if escaping {
			sb.WriteRune(unescape(c))
			escaping = false
			cs.Advance()
			continue
		}
		if c == '/' {
			break
		}
		if c == '\\' {
			escaping = true
			cs.Advance()
			continue
		}
		sb.WriteRune(c)
		cs.Advance()
	}
	cs.Advance() // closing '/'
	return sb.String(), nil
}
