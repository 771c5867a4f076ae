package task

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/acmesh-lang/acmesh/internal/ast"
)

// Word resolves a single *ast.Word node in place: String gets tilde
// expansion (if requested), Parameter is substituted with its variable's
// value, and Command forks a subshell, captures its stdout and splices the
// trimmed result back in as a String. Grounded on
// original_source/src/task/word.rs.
type Word struct {
	Word        *ast.Word
	ExpandTilde bool

	started    bool
	subCtx     *Context
	runner     *Runner
	runnerDone bool
	pipeRead   *os.File
	pipeWrite  *os.File
	pipeEOF    bool
	output     []byte
}

// NewWord wraps a word node for evaluation; expandTilde is false for
// fragments inside a double-quoted WList, matching spec.md §4.7's
// `expand_tilde := expand_tilde ∧ ¬double_quoted` rule.
func NewWord(w *ast.Word, expandTilde bool) *Word {
	return &Word{Word: w, ExpandTilde: expandTilde}
}

func (t *Word) Poll(ctx *Context) (Result, error) {
	switch c := t.Word.Content.(type) {
	case ast.WString:
		if t.ExpandTilde {
			expanded, err := expandTilde(c.Text)
			if err != nil {
				return Result{}, err
			}
			c.Text = expanded
			t.Word.Content = c
		}
		return Success(0), nil

	case ast.WParameter:
		t.Word.Content = ast.WString{Text: ctx.State.GetString(c.Name)}
		return Success(0), nil

	case ast.WCommand:
		return t.pollCommand(ctx, c)

	default:
		return Result{}, fmt.Errorf("word: unexpected content %T", c)
	}
}

// pollCommand forks the substituted program's task tree on the first call
// and then advances it one Poll at a time, the same way every other
// restartable task in this package works: no step blocks, so the output
// pipe is drained opportunistically between polls instead of all at once
// with a goroutine racing the scheduler's own reap loop. The nested
// program's exec.Cmd children land in the same ctx.State.Processes table
// as everything else and are reaped by the single driving reapOne loop
// (task/status.go, task/reap.go) like any other child.
func (t *Word) pollCommand(ctx *Context, c ast.WCommand) (Result, error) {
	if !t.started {
		r, w, err := os.Pipe()
		if err != nil {
			return Result{}, fmt.Errorf("couldn't pipe command for substitution: %w", err)
		}
		t.subCtx = &Context{
			State:  ctx.State,
			Stdin:  ctx.Stdin,
			Stdout: w,
			Stderr: ctx.Stderr,
			Logger: ctx.Logger,
		}
		t.runner = NewRunner(BuildProgram(c.Program))
		t.pipeRead = r
		t.pipeWrite = w
		t.started = true
	}

	if !t.runnerDone {
		if err := t.pump(); err != nil {
			return Result{}, fmt.Errorf("failed to read command output: %w", err)
		}
		result, err := t.runner.Poll(t.subCtx)
		if err != nil {
			return Result{}, err
		}
		if result.Waiting {
			return result, nil
		}
		t.runnerDone = true
		t.pipeWrite.Close()
	}

	if !t.pipeEOF {
		if err := t.pump(); err != nil {
			return Result{}, fmt.Errorf("failed to read command output: %w", err)
		}
		if !t.pipeEOF {
			return Wait, nil
		}
		t.pipeRead.Close()
	}

	s := strings.TrimRight(string(t.output), "\n")
	t.Word.Content = ast.WString{Text: s}
	return Success(0), nil
}

// pump drains whatever output is already buffered in the pipe: the read
// deadline is set one millisecond ahead, so a Read returns the bytes that
// are available, or ErrDeadlineExceeded once nothing more arrives within
// that millisecond. Once the writer closes, draining continues until a
// real io.EOF marks pipeEOF.
func (t *Word) pump() error {
	if err := t.pipeRead.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return err
	}
	buf := make([]byte, 4096)
	for {
		n, err := t.pipeRead.Read(buf)
		if n > 0 {
			t.output = append(t.output, buf[:n]...)
		}
		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			t.pipeEOF = true
			return nil
		case errors.Is(err, os.ErrDeadlineExceeded):
			return nil
		default:
			return err
		}
	}
}

// expandTilde implements spec.md §4.7's tilde expansion: a bare `~` or
// `~/...` expands to the invoking user's home directory, `~name/...`
// expands to that named user's home directory.
func expandTilde(s string) (string, error) {
	if s == "" || s[0] != '~' {
		return s, nil
	}
	rest := s[1:]
	sep := strings.IndexRune(rest, filepath.Separator)
	var name, tail string
	if sep < 0 {
		name, tail = rest, ""
	} else {
		name, tail = rest[:sep], rest[sep:]
	}

	var home string
	if name == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("couldn't get home dir: %w", err)
		}
		home = h
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return "", fmt.Errorf("couldn't get home dir: %w", err)
		}
		home = u.HomeDir
	}
	return home + tail, nil
}

// wordToString returns a Word's resolved literal text. By the time a
// Command task polls its name/args, each one's own Word task has already
// reduced it to WString in the same preceding List.
func wordToString(w *ast.Word) string {
	switch c := w.Content.(type) {
	case ast.WString:
		return c.Text
	case ast.WList:
		var b strings.Builder
		for _, frag := range c.Fragments {
			b.WriteString(wordToString(frag))
		}
		return b.String()
	default:
		return ""
	}
}

// NewWordTask builds the Task tree for a Word, recursing into WList
// fragments (each inheriting expandTilde unless this list is
// double-quoted) and producing a List task so every fragment resolves in
// turn. Grounded on original_source/src/task/task.rs's new_from_word.
func NewWordTask(w *ast.Word, expandTilde bool) *Runner {
	if list, ok := w.Content.(ast.WList); ok {
		children := make([]*Runner, 0, len(list.Fragments))
		for _, frag := range list.Fragments {
			children = append(children, NewWordTask(frag, expandTilde && !list.DoubleQuoted))
		}
		return NewRunner(NewList(children...))
	}
	return NewRunner(NewWord(w, expandTilde))
}
