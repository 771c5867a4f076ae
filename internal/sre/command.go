package sre

import (
	"github.com/acmesh-lang/acmesh/internal/charsrc"
	"github.com/acmesh-lang/acmesh/internal/srelex"
)

// SRECommand is one `letter/arg/.../arg/` SRE command, optionally addressed
// and optionally carrying a nested command argument (for g, v, x, y).
type SRECommand struct {
	Address    *ComposedAddress
	Name       byte
	Args       []string
	CommandArg *SRECommand
}

// argCount returns how many slash-delimited arguments the named command
// takes, or -1 if the name isn't a recognized SRE command.
func argCount(name byte) int {
	switch name {
	case 'p', 'd':
		return 0
	case 'a', 'c', 'i', 'g', 'v', 'x', 'y':
		return 1
	default:
		return -1
	}
}

func hasCommandArg(name byte) bool {
	switch name {
	case 'g', 'v', 'x', 'y':
		return true
	default:
		return false
	}
}

// ParseStage parses one full addressed SRE command: an optional composed
// address followed by a command letter, its arguments, and (for g/v/x/y) a
// recursively parsed nested command.
func ParseStage(cs *charsrc.Source, unescape func(rune) rune) (*SRECommand, error) {
	skipSpace(cs)
	addrToks, err := srelex.LexAddress(cs)
	if err != nil {
		return nil, err
	}
	addr, err := ParseAddress(addrToks)
	if err != nil {
		return nil, err
	}
	simple, err := parseSimpleCommand(cs, unescape)
	if err != nil {
		return nil, err
	}
	simple.Address = addr
	return simple, nil
}

func skipSpace(cs *charsrc.Source) {
	for {
		c, ok := cs.Peek()
		if !ok || (c != ' ' && c != '\t' && c != '\r' && c != '\f') {
			return
		}
		cs.Advance()
	}
}

func parseSimpleCommand(cs *charsrc.Source, unescape func(rune) rune) (*SRECommand, error) {
	skipSpace(cs)
	c, ok := cs.Advance()
	if !ok {
		return nil, cs.NewError("unexpected EOF when reading command")
	}
	if c > 255 {
		return nil, cs.NewError("unexpected character %q when reading command name", c)
	}
	name := byte(c)
	nr := argCount(name)
	if nr == -1 {
		return nil, cs.NewError("unexpected character %q when reading command name", c)
	}

	var args []string
	for i := 0; i < nr; i++ {
		next, ok := cs.Peek()
		if !ok || next != '/' {
			if !ok {
				return nil, cs.NewError("unexpected EOF when reading argument")
			}
			return nil, cs.NewError("unexpected character %q when reading argument", next)
		}
		arg, err := srelex.ReadArg(cs, unescape)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	var cmdArg *SRECommand
	if hasCommandArg(name) {
		nested, err := ParseStage(cs, unescape)
		if err != nil {
			return nil, err
		}
		cmdArg = nested
	}
	return &SRECommand{Name: name, Args: args, CommandArg: cmdArg}, nil
}
