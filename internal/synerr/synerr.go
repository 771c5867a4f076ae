// Package synerr defines the lex/parse error type shared across the char
// source, lexer, SRE sub-lexer and parser.
package synerr

import (
	"fmt"

	"github.com/acmesh-lang/acmesh/internal/token"
)

// Error is a lex or parse error carrying the source position it occurred at.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New builds an Error at pos with a formatted message.
func New(pos token.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
