// Package parser is the recursive-descent parser (component D): it turns
// the main lexer's token stream into an *ast.Program. Grounded on
// original_source/src/parser/lex/mod.rs's token taxonomy (quote and
// parameter delimiters are lexed as single-character tokens; assembling
// them into a Word is the parser's job, not the lexer's) together with
// spec.md §4.3's grammar and SPEC_FULL.md's AndOr/switch/match additions.
package parser

import (
	"github.com/acmesh-lang/acmesh/internal/ast"
	"github.com/acmesh-lang/acmesh/internal/lexer"
	"github.com/acmesh-lang/acmesh/internal/sre"
	"github.com/acmesh-lang/acmesh/internal/synerr"
	"github.com/acmesh-lang/acmesh/internal/token"
)

// Parser wraps a lexer with one token of lookahead (inherited from the
// lexer itself) and produces a Program.
type Parser struct {
	lex *lexer.Lexer
}

// New builds a Parser reading tokens from lex.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

// Parse is a convenience wrapper running a whole Parser over lex.
func Parse(lex *lexer.Lexer) (*ast.Program, error) {
	return New(lex).ParseProgram()
}

// ParseProgram parses a whole top-level program, terminated by EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	return p.parseProgram(token.EOF)
}

// parseProgram parses CommandList* up to (but not consuming) a token of
// kind stop — token.EOF at the top level, token.RBrace inside a brace
// group, token.RParen inside a command substitution.
func (p *Parser) parseProgram(stop token.Type) (*ast.Program, error) {
	prog := &ast.Program{}
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == stop {
			return prog, nil
		}
		if t.Kind == token.Newline || t.Kind == token.Semicolon {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			continue
		}
		cl, err := p.parseCommandList(stop)
		if err != nil {
			return nil, err
		}
		prog.Lists = append(prog.Lists, cl)
	}
}

// parseCommandList parses one AndOr chain and its terminator. stop is the
// enclosing construct's implicit terminator (EOF/RBrace/RParen), accepted
// without being consumed; an explicit Newline or Semicolon is consumed.
func (p *Parser) parseCommandList(stop token.Type) (ast.CommandList, error) {
	chain, err := p.parseAndOr()
	if err != nil {
		return ast.CommandList{}, err
	}
	t, err := p.lex.Peek()
	if err != nil {
		return ast.CommandList{}, err
	}
	switch t.Kind {
	case token.Newline, token.Semicolon:
		if _, err := p.lex.Next(); err != nil {
			return ast.CommandList{}, err
		}
	case stop:
		// left for the caller to see
	default:
		return ast.CommandList{}, p.unexpected(t, "';', newline or end of block")
	}
	return ast.CommandList{Chain: chain}, nil
}

// parseAndOr parses Not ('&&' Not | '||' Not)*.
func (p *Parser) parseAndOr() ([]ast.AndOrElem, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	chain := []ast.AndOrElem{{Op: ast.OpNone, Term: first}}
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		var op ast.AndOrOp
		switch t.Kind {
		case token.AndAnd:
			op = ast.OpAnd
		case token.OrOr:
			op = ast.OpOr
		default:
			return chain, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		term, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		chain = append(chain, ast.AndOrElem{Op: op, Term: term})
	}
}

// parseNot parses '!'? Pipeline.
func (p *Parser) parseNot() (ast.NegatedPipeline, error) {
	t, err := p.lex.Peek()
	if err != nil {
		return ast.NegatedPipeline{}, err
	}
	negate := false
	if t.Kind == token.Bang {
		if _, err := p.lex.Next(); err != nil {
			return ast.NegatedPipeline{}, err
		}
		negate = true
	}
	pipe, err := p.parsePipeline()
	if err != nil {
		return ast.NegatedPipeline{}, err
	}
	return ast.NegatedPipeline{Negate: negate, Pipeline: pipe}, nil
}

// parsePipeline parses Command ('|' Command)*.
func (p *Parser) parsePipeline() (ast.Pipeline, error) {
	cmd, err := p.parseCommand()
	if err != nil {
		return ast.Pipeline{}, err
	}
	stages := []ast.Command{cmd}
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return ast.Pipeline{}, err
		}
		if t.Kind != token.Pipe {
			return ast.Pipeline{Stages: stages}, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return ast.Pipeline{}, err
		}
		cmd, err := p.parseCommand()
		if err != nil {
			return ast.Pipeline{}, err
		}
		stages = append(stages, cmd)
	}
}

// parseCommand parses SimpleCommand | SREProgram | BraceGroup | IfElse |
// Switch | Match. A Pizza token already carries its fully-parsed SRE
// stages (scanned eagerly by the lexer's sub-lexer), so it becomes an
// SREProgram in one step; keywords are recognized as Word tokens whose
// text matches exactly, since the lexer has no notion of keywords.
func (p *Parser) parseCommand() (ast.Command, error) {
	t, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.Pizza:
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		stages, _ := t.Pizza.([]*sre.SRECommand)
		return ast.SREProgram{Stages: stages}, nil
	case token.LBrace:
		body, err := p.parseBraceGroupProgram()
		if err != nil {
			return nil, err
		}
		return ast.BraceGroup{Body: body}, nil
	case token.Word:
		switch t.Text {
		case "if":
			return p.parseIfElse()
		case "switch":
			return p.parseSwitch()
		case "match":
			return p.parseMatch()
		}
	}
	return p.parseSimpleCommand()
}

// parseBraceGroupProgram parses '{' Program '}', consuming both braces.
func (p *Parser) parseBraceGroupProgram() (*ast.Program, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	body, err := p.parseProgram(token.RBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return body, nil
}

// parseIfElse parses 'if' BraceGroup BraceGroup ('else' BraceGroup)?. The
// keyword token itself was only peeked by the caller, so it is consumed
// here first.
func (p *Parser) parseIfElse() (ast.Command, error) {
	if _, err := p.lex.Next(); err != nil { // "if"
		return nil, err
	}
	cond, err := p.parseBraceGroupProgram()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraceGroupProgram()
	if err != nil {
		return nil, err
	}
	ie := ast.IfElse{Condition: cond, Body: body}
	t, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.Word && t.Text == "else" {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseBraceGroupProgram()
		if err != nil {
			return nil, err
		}
		ie.Else = elseBody
	}
	return ie, nil
}

// parseSwitch parses 'switch' Word '{' (Word BraceGroup)* '}'.
func (p *Parser) parseSwitch() (ast.Command, error) {
	if _, err := p.lex.Next(); err != nil { // "switch"
		return nil, err
	}
	scrutinee, err := p.parseWord()
	if err != nil {
		return nil, err
	}
	arms, err := p.parseArms()
	if err != nil {
		return nil, err
	}
	return ast.Switch{Scrutinee: scrutinee, Arms: arms}, nil
}

// parseMatch parses 'match' '{' (Word BraceGroup)* '}'.
func (p *Parser) parseMatch() (ast.Command, error) {
	if _, err := p.lex.Next(); err != nil { // "match"
		return nil, err
	}
	arms, err := p.parseArms()
	if err != nil {
		return nil, err
	}
	return ast.Match{Arms: arms}, nil
}

// parseArms parses the shared '{' (pattern BraceGroup)* '}' body used by
// both switch and match, skipping blank separator lines between arms.
func (p *Parser) parseArms() ([]ast.MatchArm, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.RBrace {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			return arms, nil
		}
		pattern, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBraceGroupProgram()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body})
	}
}

func (p *Parser) skipSeparators() error {
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return err
		}
		if t.Kind != token.Newline && t.Kind != token.Semicolon {
			return nil
		}
		if _, err := p.lex.Next(); err != nil {
			return err
		}
	}
}

// parseSimpleCommand parses Word (Space Word)*, using SpaceBefore to find
// each argument's boundary since the lexer reports separation via that
// flag rather than a literal Space token.
func (p *Parser) parseSimpleCommand() (ast.Command, error) {
	name, err := p.parseWord()
	if err != nil {
		return nil, err
	}
	var args []*ast.Word
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if !t.SpaceBefore || !isWordStart(t.Kind) {
			break
		}
		arg, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return ast.SimpleCommand{Name: name, Args: args}, nil
}

// parseWord parses (BareString | SingleQuoted | DoubleQuoted | Parameter)+,
// concatenating fragments glued with no intervening space into a WList
// (flattened as appendFlattened describes).
func (p *Parser) parseWord() (*ast.Word, error) {
	first, err := p.parseWordFragment()
	if err != nil {
		return nil, err
	}
	fragments := []*ast.Word{first}
	for {
		t, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if t.SpaceBefore || !isWordStart(t.Kind) {
			break
		}
		next, err := p.parseWordFragment()
		if err != nil {
			return nil, err
		}
		fragments = appendFlattened(fragments, next)
	}
	if len(fragments) == 1 {
		return fragments[0], nil
	}
	return &ast.Word{Content: ast.WList{Fragments: fragments}}, nil
}

// appendFlattened appends w to fragments, splicing in w's own fragments in
// place if w is itself an unquoted WList. A double-quoted WList is appended
// as a single nested fragment.
func appendFlattened(fragments []*ast.Word, w *ast.Word) []*ast.Word {
	if list, ok := w.Content.(ast.WList); ok && !list.DoubleQuoted {
		return append(fragments, list.Fragments...)
	}
	return append(fragments, w)
}

func isWordStart(k token.Type) bool {
	switch k {
	case token.Word, token.SingleQuote, token.DoubleQuote, token.Dollar:
		return true
	default:
		return false
	}
}

// parseWordFragment parses one BareString | SingleQuoted | DoubleQuoted |
// Parameter | command substitution unit.
func (p *Parser) parseWordFragment() (*ast.Word, error) {
	t, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.Word:
		return ast.NewString(t.Text, false), nil
	case token.SingleQuote:
		return ast.NewString(t.Text, false), nil
	case token.DoubleQuote:
		return p.lex.ScanDoubleQuotedWord()
	case token.Dollar:
		return p.parseParameterOrCommand()
	default:
		return nil, p.unexpected(t, "a word")
	}
}

// parseParameterOrCommand parses whatever follows a Dollar token: an
// immediate, unspaced '(' starts a command substitution `$(...)`, read as
// a nested Program up to the matching ')'; otherwise it is a `$name`
// parameter reference.
func (p *Parser) parseParameterOrCommand() (*ast.Word, error) {
	t, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.LParen && !t.SpaceBefore {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		prog, err := p.parseProgram(token.RParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return &ast.Word{Content: ast.WCommand{Program: prog}}, nil
	}
	name, err := p.lex.ScanName()
	if err != nil {
		return nil, err
	}
	return &ast.Word{Content: ast.WParameter{Name: name}}, nil
}

func (p *Parser) expect(kind token.Type) (token.Token, error) {
	t, err := p.lex.Next()
	if err != nil {
		return token.Token{}, err
	}
	if t.Kind != kind {
		return token.Token{}, p.unexpected(t, kind.String())
	}
	return t, nil
}

func (p *Parser) unexpected(t token.Token, want string) error {
	return synerr.New(t.Position, "unexpected token %s, expected %s", t, want)
}
