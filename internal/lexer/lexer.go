// Package lexer is the main lexer (component B). It produces one token of
// lookahead at a time and, on encountering the pizza operator `|>`, pushes a
// secondary prompt and calls into internal/sre to parse one SRE stage
// in-line, carrying the parsed command on the resulting Pizza token.
package lexer

import (
	"log/slog"

	"github.com/acmesh-lang/acmesh/internal/ast"
	"github.com/acmesh-lang/acmesh/internal/charsrc"
	"github.com/acmesh-lang/acmesh/internal/escape"
	"github.com/acmesh-lang/acmesh/internal/sre"
	"github.com/acmesh-lang/acmesh/internal/token"
)

// ASCII lookup tables for fast classification, following the teacher's
// lexer convention of pre-computed byte-indexed tables over a switch chain.
var (
	isSpace      [128]bool
	isReserved   [128]bool
	singleTokens [128]token.Type
)

func init() {
	for i := 0; i < 128; i++ {
		c := byte(i)
		isSpace[i] = c == ' ' || c == '\t' || c == '\r' || c == '\f'
		singleTokens[i] = token.ILLEGAL
	}
	reserved := "|{}()'\";$\n#&!"
	for _, c := range reserved {
		isReserved[c] = true
	}
	singleTokens['{'] = token.LBrace
	singleTokens['}'] = token.RBrace
	singleTokens['('] = token.LParen
	singleTokens[')'] = token.RParen
	singleTokens[';'] = token.Semicolon
	singleTokens['$'] = token.Dollar
	singleTokens['!'] = token.Bang
}

// Lexer wraps a charsrc.Source with one-token lookahead.
type Lexer struct {
	src    *charsrc.Source
	peeked *token.Token
	logger *slog.Logger

	// pipeFollows is set right after emitting a Pizza token: the very next
	// token must start with '|', '&', ';', ')', '}' or a newline, or be EOF
	// (one SRE stage is chained into the next by `|`, otherwise the
	// pipeline element ends).
	pipeFollows bool

	// pendingPipe is set when scanPizza consumed a `|` that turned out to
	// introduce a *new* `|>` rather than continue this one's stage chain;
	// the next scan() call must report it as a Pipe token without
	// re-reading from the source.
	pendingPipe bool
}

// New builds a Lexer reading from src, logging debug diagnostics to logger.
func New(src *charsrc.Source, logger *slog.Logger) *Lexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lexer{src: src, logger: logger}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (token.Token, error) {
	if l.peeked == nil {
		t, err := l.scan()
		if err != nil {
			return token.Token{}, err
		}
		l.peeked = &t
	}
	return *l.peeked, nil
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (token.Token, error) {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t, nil
	}
	return l.scan()
}

// scan reports EOF forever once the source has errored, matching
// original_source/src/parser/lex/mod.rs's own `errored` latch: a lexer
// that has already failed never resumes scanning from whatever
// potentially-corrupt position the failure left it at.
func (l *Lexer) scan() (token.Token, error) {
	if l.src.Errored() {
		return token.Token{Kind: token.EOF, Position: l.src.Position()}, nil
	}
	if l.pendingPipe {
		l.pendingPipe = false
		l.pipeFollows = false
		return token.Token{Kind: token.Pipe, Position: l.src.Position()}, nil
	}

	spaceBefore := l.skipSpaceAndComments()
	pos := l.src.Position()

	if l.pipeFollows {
		l.pipeFollows = false
		c, ok := l.src.Peek()
		if ok && c != '|' && c != '\n' && c != '}' && c != ';' && c != ')' && c != '&' {
			l.src.MarkErrored()
			return token.Token{}, l.src.NewError("expected '|', '&&', '||', newline, ';' or '}' after SRE stage, got %q", c)
		}
	}

	t, err := l.scanToken(pos)
	if err != nil {
		l.src.MarkErrored()
		return t, err
	}
	t.SpaceBefore = spaceBefore
	return t, nil
}

func (l *Lexer) scanToken(pos token.Position) (token.Token, error) {
	c, ok := l.src.Peek()
	if !ok {
		return token.Token{Kind: token.EOF, Position: pos}, nil
	}

	switch {
	case c == '\n':
		l.src.Advance()
		return token.Token{Kind: token.Newline, Position: pos}, nil
	case c == '|':
		l.src.Advance()
		next, ok := l.src.Peek()
		if ok && next == '>' {
			l.src.Advance()
			return l.scanPizza(pos)
		}
		if ok && next == '|' {
			l.src.Advance()
			return token.Token{Kind: token.OrOr, Position: pos}, nil
		}
		return token.Token{Kind: token.Pipe, Position: pos}, nil
	case c == '&':
		l.src.Advance()
		next, ok := l.src.Peek()
		if !ok || next != '&' {
			return token.Token{}, l.src.NewError("expected '&&', got a lone '&'")
		}
		l.src.Advance()
		return token.Token{Kind: token.AndAnd, Position: pos}, nil
	case c == '"':
		return token.Token{Kind: token.DoubleQuote, Position: pos}, nil
	case c == '\'':
		return l.scanSingleQuoted(pos)
	case int(c) < 128 && singleTokens[c] != token.ILLEGAL:
		l.src.Advance()
		return token.Token{Kind: singleTokens[c], Position: pos}, nil
	default:
		return l.scanWord(pos)
	}
}

// skipSpaceAndComments consumes runs of whitespace and `#` comments,
// reporting whether it consumed anything (the token that follows is then
// marked SpaceBefore, matching spec.md §4.2's "whitespace collapses into a
// single Space").
func (l *Lexer) skipSpaceAndComments() bool {
	skipped := false
	for {
		c, ok := l.src.Peek()
		if !ok {
			return skipped
		}
		if int(c) < 128 && isSpace[c] {
			l.src.Advance()
			skipped = true
			continue
		}
		if c == '#' {
			skipped = true
			for {
				c, ok := l.src.Peek()
				if !ok || c == '\n' {
					break
				}
				l.src.Advance()
			}
			continue
		}
		return skipped
	}
}

// scanPizza pushes the "pizza" secondary prompt, hands the source to the
// SRE parser for exactly one stage, and chains further `|`-joined stages
// into a single Pizza token's SREStages slice.
func (l *Lexer) scanPizza(pos token.Position) (token.Token, error) {
	l.src.PushPrompt("pizza> ")
	defer l.src.PopPrompt()

	var stages []*sre.SRECommand
	for {
		stage, err := sre.ParseStage(l.src, escape.Unescape)
		if err != nil {
			return token.Token{}, err
		}
		stages = append(stages, stage)

		l.skipPizzaSpace()
		c, ok := l.src.Peek()
		if !ok || c != '|' {
			break
		}
		// lookahead: '|' joins another stage only if not followed by '>'
		// (which would instead start a *new* pizza token at the outer level).
		l.src.Advance()
		next, ok := l.src.Peek()
		if ok && next == '>' {
			// this '|' actually belongs to the next SREProgram element;
			// un-consume by treating it as end of this chain and letting
			// the outer scan see Pipe then Pizza again next call.
			l.pendingPipe = true
			break
		}
	}
	l.pipeFollows = true
	return token.Token{Kind: token.Pizza, Position: pos, Pizza: stages}, nil
}

func (l *Lexer) skipPizzaSpace() {
	for {
		c, ok := l.src.Peek()
		if !ok || (c != ' ' && c != '\t' && c != '\r' && c != '\f') {
			return
		}
		l.src.Advance()
	}
}

// ScanDoubleQuotedWord parses a complete "..." word, called by the parser
// right after Peek()/Next() reports a DoubleQuote token (whose position
// marks the opening quote, not yet consumed from the source: scan() stops
// short of advancing past it so this method can take over). Embedded
// `$name` parameter references split the literal text into WString/
// WParameter fragments, per the DoubleQuoted grammar production.
func (l *Lexer) ScanDoubleQuotedWord() (*ast.Word, error) {
	l.src.Advance() // opening quote
	var fragments []*ast.Word
	var sb []rune
	flush := func() {
		if len(sb) > 0 {
			fragments = append(fragments, ast.NewString(string(sb), true))
			sb = nil
		}
	}
	for {
		c, ok := l.src.Peek()
		if !ok {
			l.src.MarkErrored()
			return nil, l.src.NewError("unterminated double-quoted string")
		}
		switch {
		case c == '"':
			l.src.Advance()
			flush()
			if len(fragments) == 0 {
				return ast.NewString("", true), nil
			}
			if len(fragments) == 1 {
				return fragments[0], nil
			}
			return &ast.Word{Content: ast.WList{Fragments: fragments, DoubleQuoted: true}}, nil
		case c == '\\':
			l.src.Advance()
			next, ok := l.src.Peek()
			if !ok {
				l.src.MarkErrored()
				return nil, l.src.NewError("unexpected EOF while escaping")
			}
			sb = append(sb, escape.Unescape(next))
			l.src.Advance()
		case c == '$':
			l.src.Advance()
			name, err := l.ScanName()
			if err != nil {
				return nil, err
			}
			flush()
			fragments = append(fragments, &ast.Word{Content: ast.WParameter{Name: name}})
		default:
			sb = append(sb, c)
			l.src.Advance()
		}
	}
}

func (l *Lexer) scanSingleQuoted(pos token.Position) (token.Token, error) {
	l.src.Advance() // opening quote
	var sb []rune
	for {
		c, ok := l.src.Peek()
		if !ok {
			return token.Token{}, l.src.NewError("unterminated single-quoted string")
		}
		if c == '\'' {
			l.src.Advance()
			break
		}
		sb = append(sb, c)
		l.src.Advance()
	}
	return token.Token{Kind: token.SingleQuote, Position: pos, Text: string(sb)}, nil
}

// ScanName reads a parameter name directly from the source, called by the
// parser right after consuming a Dollar token. If the token after the
// Dollar has already been peeked, the name is taken from the front of that
// token instead: it must be a Word with no space before it, and any text
// left after the name stays peeked as the next Word fragment. Names are a
// maximal run of letters, digits and underscores; numbered capture
// variables ("0", "1", ...) from switch/match are ordinary names by this
// rule.
func (l *Lexer) ScanName() (string, error) {
	if t := l.peeked; t != nil {
		n := 0
		for n < len(t.Text) && isNameRune(rune(t.Text[n])) {
			n++
		}
		if t.Kind != token.Word || t.SpaceBefore || n == 0 {
			l.src.MarkErrored()
			return "", l.src.NewError("expected a parameter name after '$'")
		}
		name := t.Text[:n]
		t.Text = t.Text[n:]
		t.Position.Column += n
		if t.Text == "" {
			l.peeked = nil
		}
		return name, nil
	}
	var sb []rune
	for {
		c, ok := l.src.Peek()
		if !ok || !isNameRune(c) {
			break
		}
		sb = append(sb, c)
		l.src.Advance()
	}
	if len(sb) == 0 {
		l.src.MarkErrored()
		return "", l.src.NewError("expected a parameter name after '$'")
	}
	return string(sb), nil
}

func isNameRune(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// scanWord scans a maximal run of bareword characters, honoring backslash
// escapes anywhere in the word per the shared escape table.
func (l *Lexer) scanWord(pos token.Position) (token.Token, error) {
	var sb []rune
	for {
		c, ok := l.src.Peek()
		if !ok || (int(c) < 128 && isReserved[c]) || (int(c) < 128 && isSpace[c]) {
			break
		}
		if c == '\\' {
			l.src.Advance()
			next, ok := l.src.Peek()
			if !ok {
				return token.Token{}, l.src.NewError("unexpected EOF while escaping")
			}
			sb = append(sb, escape.Unescape(next))
			l.src.Advance()
			continue
		}
		sb = append(sb, c)
		l.src.Advance()
	}
	if len(sb) == 0 {
		return token.Token{}, l.src.NewError("illegal character")
	}
	return token.Token{Kind: token.Word, Position: pos, Text: string(sb)}, nil
}
