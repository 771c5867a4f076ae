// Package task implements the cooperative task scheduler (component G),
// the word evaluator (component H) and the Match/Switch tasks (component
// I): every AST node becomes a Task whose Poll is restartable and whose
// only blocking call, system-wide, happens once in Run's reap loop.
package task

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/acmesh-lang/acmesh/internal/state"
)

// Context is threaded through every Poll call: the shared shell state plus
// the standard streams the current task tree is wired to.
type Context struct {
	State *state.State

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger

	// EvalFunc lets the `eval` builtin re-enter the lexer/parser/scheduler
	// pipeline without this package importing internal/lexer or
	// internal/parser. cmd/acmesh wires this at startup.
	EvalFunc func(ctx *Context, text string) (int, error)

	// ExitRequested/ExitCode are set by the `exit` builtin; the REPL loop
	// checks ExitRequested after each top-level command list completes.
	ExitRequested bool
	ExitCode      int

	// StdinReader lazily wraps Stdin for tasks (Match) that need buffered,
	// non-blocking-friendly reads without re-wrapping on every poll.
	stdinReader *bufio.Reader
}

// BufferedStdin returns a shared *bufio.Reader over ctx.Stdin.
func (c *Context) BufferedStdin() *bufio.Reader {
	if c.stdinReader == nil {
		c.stdinReader = bufio.NewReader(c.Stdin)
	}
	return c.stdinReader
}

// NewContext builds a Context over os.Stdin/Stdout/Stderr with a fresh
// state.State.
func NewContext() *Context {
	return &Context{
		State:  state.New(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: slog.Default(),
	}
}
