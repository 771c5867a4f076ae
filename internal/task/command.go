package task

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/acmesh-lang/acmesh/internal/ast"
	"github.com/acmesh-lang/acmesh/internal/builtins"
	"github.com/acmesh-lang/acmesh/internal/suggest"
)

// Command runs a single, already-word-evaluated simple command: classified
// on first poll as built-in or external. Grounded on
// original_source/src/task/command.rs.
type Command struct {
	Name *ast.Word
	Args []*ast.Word

	started bool
	argv    []string
	cmd     *exec.Cmd
}

// NewCommand builds a Command over already-shared word nodes; the name and
// args are expected to already have been reduced to WString content by the
// time Poll runs (their own Word tasks run first in the same List).
func NewCommand(name *ast.Word, args []*ast.Word) *Command {
	return &Command{Name: name, Args: args}
}

func (c *Command) Poll(ctx *Context) (Result, error) {
	ctx.State.IfConditionOK = nil
	if !c.started {
		c.argv = append([]string{wordToString(c.Name)}, wordsToStrings(c.Args)...)
	}

	if fn, ok := builtins.Lookup(c.argv[0]); ok {
		return Success(fn(&builtinEnv{ctx: ctx}, c.argv)), nil
	}

	if !c.started {
		path, err := exec.LookPath(c.argv[0])
		if err != nil {
			fmt.Fprintf(ctx.Stderr, "%s: command not found\n", c.argv[0])
			if s := suggest.Suggest(c.argv[0], suggest.Candidates(builtins.Names())); s != "" {
				fmt.Fprintln(ctx.Stderr, s)
			}
			return Success(127), nil
		}
		c.cmd = exec.Command(path, c.argv[1:]...)
		c.cmd.Stdin = ctx.Stdin
		c.cmd.Stdout = ctx.Stdout
		c.cmd.Stderr = ctx.Stderr
		if err := c.cmd.Start(); err != nil {
			return Result{}, fmt.Errorf("failed to fork: %w", err)
		}
		ctx.State.TrackProcess(c.cmd.Process.Pid)
		c.started = true
	}

	p, ok := ctx.State.Processes[c.cmd.Process.Pid]
	if !ok || !p.Terminated {
		return Wait, nil
	}
	// reapOne has already reaped the child, so Wait's own wait fails; it
	// still waits for exec's copying of non-file stdio to finish.
	c.cmd.Wait()
	return Success(p.ExitCode), nil
}

func wordsToStrings(words []*ast.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = wordToString(w)
	}
	return out
}

// builtinEnv adapts *Context to builtins.Env.
type builtinEnv struct {
	ctx *Context
}

func (e *builtinEnv) GetVar(name string) ([]string, bool) {
	v, ok := e.ctx.State.Get(name)
	return []string(v), ok
}

func (e *builtinEnv) SetVar(name, value string) { e.ctx.State.Set(name, value) }
func (e *builtinEnv) UnsetVar(name string)       { e.ctx.State.Unset(name) }
func (e *builtinEnv) Stdout() io.Writer          { return e.ctx.Stdout }
func (e *builtinEnv) Stderr() io.Writer          { return e.ctx.Stderr }

func (e *builtinEnv) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}
	if cwd, err := os.Getwd(); err == nil {
		e.ctx.State.Cwd = cwd
	}
	return nil
}

func (e *builtinEnv) Home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return ""
}

func (e *builtinEnv) Eval(text string) (int, error) {
	if e.ctx.EvalFunc == nil {
		return 1, fmt.Errorf("eval: not available in this context")
	}
	return e.ctx.EvalFunc(e.ctx, text)
}

func (e *builtinEnv) RequestExit(code int) {
	e.ctx.ExitRequested = true
	e.ctx.ExitCode = code
}
