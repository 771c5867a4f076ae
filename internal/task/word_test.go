package task

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/acmesh-lang/acmesh/internal/ast"
	"github.com/acmesh-lang/acmesh/internal/state"
)

func newTestContext() *Context {
	return &Context{
		State:  &state.State{Variables: make(map[string]state.Value), Processes: make(map[int]*state.Process)},
		Stdin:  bytes.NewReader(nil),
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		Logger: slog.Default(),
	}
}

func pollToCompletion(t *testing.T, ctx *Context, r *Runner) Result {
	t.Helper()
	for i := 0; i < 1000; i++ {
		result, err := r.Poll(ctx)
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if !result.Waiting {
			return result
		}
		if err := reapOne(ctx); err != nil {
			t.Fatalf("reapOne: %v", err)
		}
	}
	t.Fatal("task never completed")
	return Result{}
}

func TestWordResolvesParameter(t *testing.T) {
	ctx := newTestContext()
	ctx.State.Set("name", "world")
	w := ast.NewString("", false)
	w.Content = ast.WParameter{Name: "name"}
	task := NewWord(w, true)
	if _, err := task.Poll(ctx); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got := wordToString(w); got != "world" {
		t.Errorf("got %q, want world", got)
	}
}

func TestWordResolvesUnsetParameterToEmptyString(t *testing.T) {
	ctx := newTestContext()
	w := &ast.Word{Content: ast.WParameter{Name: "missing"}}
	task := NewWord(w, true)
	if _, err := task.Poll(ctx); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got := wordToString(w); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestWordTildeExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	ctx := newTestContext()
	w := ast.NewString("~/bin", false)
	task := NewWord(w, true)
	if _, err := task.Poll(ctx); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got := wordToString(w); got != "/home/tester/bin" {
		t.Errorf("got %q, want /home/tester/bin", got)
	}
}

func TestWordNoTildeExpansionWhenDisabled(t *testing.T) {
	ctx := newTestContext()
	w := ast.NewString("~/bin", true)
	task := NewWord(w, false)
	if _, err := task.Poll(ctx); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if got := wordToString(w); got != "~/bin" {
		t.Errorf("got %q, want the literal text unexpanded", got)
	}
}

func TestWordToStringFlattensWList(t *testing.T) {
	w := &ast.Word{Content: ast.WList{Fragments: []*ast.Word{
		ast.NewString("foo", false),
		ast.NewString("bar", false),
	}}}
	if got := wordToString(w); got != "foobar" {
		t.Errorf("got %q, want foobar", got)
	}
}

func TestNewWordTaskSuppressesTildeInsideDoubleQuotedList(t *testing.T) {
	ctx := newTestContext()
	t.Setenv("HOME", "/home/tester")
	inner := ast.NewString("~", false)
	w := &ast.Word{Content: ast.WList{Fragments: []*ast.Word{inner}, DoubleQuoted: true}}
	runner := NewWordTask(w, true)
	pollToCompletion(t, ctx, runner)
	if got := wordToString(inner); got != "~" {
		t.Errorf("got %q, want the tilde left unexpanded inside a double-quoted word", got)
	}
}

func TestWordCommandSubstitutionCapturesStdoutTrimmed(t *testing.T) {
	ctx := newTestContext()
	inner := &ast.Program{Lists: []ast.CommandList{{
		Chain: []ast.AndOrElem{{Term: ast.NegatedPipeline{Pipeline: ast.Pipeline{
			Stages: []ast.Command{ast.SimpleCommand{
				Name: ast.NewString("echo", false),
				Args: []*ast.Word{ast.NewString("hi", false)},
			}},
		}}}},
	}}}
	w := &ast.Word{Content: ast.WCommand{Program: inner}}
	task := NewWord(w, false)
	pollToCompletion(t, ctx, NewRunner(task))
	if got := wordToString(w); got != "hi" {
		t.Errorf("got %q, want hi (trailing newline trimmed)", got)
	}
}
