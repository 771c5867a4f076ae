// Package sre implements the structural regular expression engine: address
// parsing/resolution (component E) and the SRE command runtime (component
// F) that the `|>` pizza stages execute against an in-memory buffer.
package sre

import (
	"fmt"

	"github.com/acmesh-lang/acmesh/internal/invariant"
	"github.com/acmesh-lang/acmesh/internal/srelex"
)

// SimpleKind is the tag of one address atom or connective.
type SimpleKind int

const (
	Nothing SimpleKind = iota
	Char
	Line
	Regex
	Dot
	Plus
	Minus
	Comma
	Semicolon
	Dollar
)

// simpleAddr is one arena-indexed node, built during parsing. left/next are
// -1 when absent. Comma/Semicolon use Left for the operand before the
// connective and Next for the (recursively parsed) remainder; Plus/Minus and
// the atoms they chain together only ever use Next, forming a flat
// right-linked list walked with a running sign during resolution.
type simpleAddr struct {
	kind       SimpleKind
	num        int
	pattern    string
	reverse    bool
	left, next int
}

// arena is the index-based tree used while parsing, avoiding the ownership
// cycle that a recursive-right grammar plus default-injection would create
// with naive pointers (see spec.md §9 and the teacher's own arena-backed AST
// convention).
type arena struct {
	nodes []simpleAddr
}

func (a *arena) add(n simpleAddr) int {
	a.nodes = append(a.nodes, n)
	return len(a.nodes) - 1
}

func (a *arena) get(i int) simpleAddr { return a.nodes[i] }

func (a *arena) set(i int, n simpleAddr) { a.nodes[i] = n }

func isHighPrecedence(k SimpleKind) bool { return k == Plus || k == Minus }
func isLowPrecedence(k SimpleKind) bool  { return k == Comma || k == Semicolon }

// ComposedAddress is the materialized, owned tree handed to the resolver.
type ComposedAddress struct {
	Kind            SimpleKind
	Num             int
	Pattern         string
	ReverseRegex    bool
	Left, Next      *ComposedAddress
}

// ParseAddress parses one composed address from the SRE sub-lexer's tokens.
// It returns nil if there were no address tokens at all (an empty address).
func ParseAddress(tokens []srelex.AddrToken) (*ComposedAddress, error) {
	p := &parser{toks: tokens, a: &arena{}}
	idx, err := p.parseCommaChain()
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, nil
	}
	return p.materialize(idx), nil
}

type parser struct {
	toks []srelex.AddrToken
	pos  int
	a    *arena
}

func (p *parser) peek() (srelex.AddrToken, bool) {
	if p.pos >= len(p.toks) {
		return srelex.AddrToken{}, false
	}
	return p.toks[p.pos], true
}

// parseCommaChain implements `do_parse`: addr ::= simple (',' | ';') addr | simple.
func (p *parser) parseCommaChain() (int, error) {
	left, err := p.parseSimpleChain()
	if err != nil {
		return -1, err
	}
	tok, ok := p.peek()
	if !ok || (tok.Kind != srelex.TComma && tok.Kind != srelex.TSemicolon) {
		if left < 0 {
			return -1, nil
		}
		return p.fillDefaults(left), nil
	}
	kind := Comma
	if tok.Kind == srelex.TSemicolon {
		kind = Semicolon
	}
	p.pos++
	next, err := p.parseCommaChain()
	if err != nil {
		return -1, err
	}
	if next >= 0 && isLowPrecedence(p.a.get(next).kind) && p.a.get(next).left < 0 {
		return -1, fmt.Errorf("malformed SRE address")
	}
	idx := p.a.add(simpleAddr{kind: kind, left: left, next: next})
	return p.fillDefaults(idx), nil
}

// parseSimpleChain implements `parse_simple_address`: atom (('+'|'-') atom)*,
// inserting an implicit Plus when two atoms are adjacent without an operator.
func (p *parser) parseSimpleChain() (int, error) {
	tok, ok := p.peek()
	if !ok {
		return -1, nil
	}
	node := simpleAddr{left: -1, next: -1}
	switch tok.Kind {
	case srelex.TCharAddress:
		node.kind, node.num = Char, tok.Num
	case srelex.TLineAddr:
		node.kind, node.num = Line, tok.Num
	case srelex.TRegexp:
		node.kind, node.pattern = Regex, tok.Text
	case srelex.TBackwardsRegexp:
		node.kind, node.pattern, node.reverse = Regex, tok.Text, true
	case srelex.TDot:
		node.kind = Dot
	case srelex.TDollar:
		node.kind = Dollar
	case srelex.TPlus:
		node.kind = Plus
	case srelex.TMinus:
		node.kind = Minus
	default:
		return -1, nil
	}
	p.pos++

	next, err := p.parseSimpleChain()
	if err != nil {
		return -1, err
	}
	if next >= 0 && !isHighPrecedence(p.a.get(next).kind) && !isHighPrecedence(node.kind) {
		next = p.a.add(simpleAddr{kind: Plus, next: next, left: -1})
	}
	node.next = next
	return p.a.add(node), nil
}

// fillDefaults walks the chain rooted at i, inserting the defaults spec.md
// §4.4 describes: Dot before a high-precedence node missing its
// predecessor, Line(1) after one missing its successor, Line(0)/Dollar
// around a low-precedence node missing an operand.
func (p *parser) fillDefaults(i int) int {
	cur := i
	first := true
	for {
		n := p.a.get(cur)
		switch {
		case isHighPrecedence(n.kind):
			if first {
				i = p.a.add(simpleAddr{kind: Dot, next: i, left: -1})
			}
			if n.next < 0 || isHighPrecedence(p.a.get(n.next).kind) {
				n.next = p.a.add(simpleAddr{kind: Line, num: 1, next: n.next, left: -1})
			}
		case isLowPrecedence(n.kind):
			if n.left >= 0 {
				n.left = p.fillDefaults(n.left)
			} else {
				n.left = p.a.add(simpleAddr{kind: Line, num: 0, left: -1, next: -1})
			}
			if n.next < 0 || isLowPrecedence(p.a.get(n.next).kind) {
				n.next = p.a.add(simpleAddr{kind: Dollar, next: n.next, left: -1})
			}
		}
		p.a.set(cur, n)
		n = p.a.get(cur)
		if n.next < 0 {
			break
		}
		cur = n.next
		first = false
	}
	return i
}

func (p *parser) materialize(i int) *ComposedAddress {
	if i < 0 {
		return nil
	}
	n := p.a.get(i)
	ca := &ComposedAddress{Kind: n.kind, Num: n.num, Pattern: n.pattern, ReverseRegex: n.reverse}
	if n.left >= 0 {
		ca.Left = p.materialize(n.left)
	}
	if n.next >= 0 {
		ca.Next = p.materialize(n.next)
	}
	return ca
}

// --- Resolution (component E, second pass) ---

// ResolveError is the set of address-resolution error kinds from spec.md §7.
type ResolveError struct{ Kind, Detail string }

func (e *ResolveError) Error() string {
	if e.Detail == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func errOutOfRange() error  { return &ResolveError{Kind: "out of range"} }
func errWrongOrder() error  { return &ResolveError{Kind: "wrong order"} }
func errNoMatch() error     { return &ResolveError{Kind: "no match"} }
func errRegex(e error) error {
	return &ResolveError{Kind: "regex error", Detail: e.Error()}
}

// Resolve resolves ca against dot over buf, returning the new address range.
func Resolve(buf *Buffer, dot Range, ca *ComposedAddress) (Range, error) {
	return resolve(buf, dot, ca, 0)
}

func resolve(buf *Buffer, dot Range, ca *ComposedAddress, sign int) (Range, error) {
	cur := dot
	for ca != nil {
		var err error
		switch ca.Kind {
		case Line:
			cur, err = lineAddress(buf, cur, ca.Num, sign)
		case Char:
			cur, err = charAddress(buf, cur, ca.Num, sign)
		case Dollar:
			cur = Range{Lo: len(buf.Data), Hi: len(buf.Data)}
		case Dot:
			// no change
		case Regex:
			s := sign
			if ca.ReverseRegex {
				if s == 0 {
					s = -1
				} else {
					s = -s
				}
			}
			cur, err = regexAddress(buf, cur, ca.Pattern, s)
		case Comma, Semicolon:
			var left, next Range
			if ca.Left != nil {
				left, err = resolve(buf, dot, ca.Left, sign)
				if err != nil {
					return Range{}, err
				}
			} else {
				left = Range{0, 0}
			}
			if ca.Next != nil {
				next, err = resolve(buf, dot, ca.Next, sign)
				if err != nil {
					return Range{}, err
				}
			} else {
				next = Range{len(buf.Data), len(buf.Data)}
			}
			if next.Hi < left.Lo {
				return Range{}, errWrongOrder()
			}
			return Range{Lo: left.Lo, Hi: next.Hi}, nil
		case Plus:
			sign = 1
		case Minus:
			sign = -1
		case Nothing:
			invariant.Invariant(false, "bare Nothing address reached resolution")
		}
		if err != nil {
			return Range{}, err
		}
		ca = ca.Next
	}
	invariant.Postcondition(cur.Lo <= cur.Hi && cur.Hi <= len(buf.Data), "resolved range out of bounds")
	return cur, nil
}
