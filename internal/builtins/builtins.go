// Package builtins implements the shell's built-in commands: exit, let,
// unset, cd, eval, calc, len. Grounded on original_source/src/builtin/*.rs.
package builtins

import "io"

// Env is the minimal surface a builtin needs from the scheduler's Context.
// Defined here (rather than imported) so this package never depends on
// internal/task — task.Context implements Env, not the other way around.
type Env interface {
	GetVar(name string) ([]string, bool)
	SetVar(name, value string)
	UnsetVar(name string)
	Stdout() io.Writer
	Stderr() io.Writer
	Chdir(dir string) error
	Home() string
	// Eval re-parses and runs text through the same lexer/parser/scheduler
	// pipeline as a top-level command line, returning its exit code.
	Eval(text string) (int, error)
	// RequestExit tells the REPL to stop after this command completes,
	// with the given exit code.
	RequestExit(code int)
}

// Func is a builtin's implementation: given its environment and argv
// (argv[0] is the builtin's own name), it returns an exit code.
type Func func(env Env, args []string) int

var table = map[string]Func{
	"exit":  builtinExit,
	"let":   builtinLet,
	"unset": builtinUnset,
	"cd":    builtinCd,
	"eval":  builtinEval,
	"calc":  builtinCalc,
	"len":   builtinLen,
}

// Lookup returns the builtin registered under name, if any.
func Lookup(name string) (Func, bool) {
	f, ok := table[name]
	return f, ok
}

// Names returns every registered builtin name, used by internal/suggest.
func Names() []string {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return names
}
