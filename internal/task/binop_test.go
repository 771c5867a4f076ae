package task

import (
	"testing"

	"github.com/acmesh-lang/acmesh/internal/ast"
)

// letCmd builds a runnable `let` invocation. Calling it with exactly two
// extra args (key, value) succeeds (exit 0); any other arg count hits
// builtinLet's usage error (exit 1), giving tests a cheap way to produce
// both exit codes without forking a real process.
func letCmd(args ...string) *Runner {
	words := make([]*ast.Word, len(args))
	for i, a := range args {
		words[i] = ast.NewString(a, false)
	}
	return buildSimpleCommand(ast.SimpleCommand{Name: ast.NewString("let", false), Args: words})
}

func TestAndSkipsRightWhenLeftFails(t *testing.T) {
	ctx := newTestContext()
	and := NewAnd(letCmd("bad"), letCmd("touched", "1"))
	result := pollToCompletion(t, ctx, NewRunner(and))
	if result.Code != 1 {
		t.Errorf("got code %d, want 1 (left's failing code passed through)", result.Code)
	}
	if _, ok := ctx.State.Get("touched"); ok {
		t.Error("expected the right side to be skipped when the left side fails")
	}
}

func TestAndRunsRightWhenLeftSucceeds(t *testing.T) {
	ctx := newTestContext()
	and := NewAnd(letCmd("left", "1"), letCmd("right", "1"))
	result := pollToCompletion(t, ctx, NewRunner(and))
	if result.Code != 0 {
		t.Errorf("got code %d, want 0", result.Code)
	}
	if _, ok := ctx.State.Get("right"); !ok {
		t.Error("expected the right side to run when the left side succeeds")
	}
}

func TestOrSkipsRightWhenLeftSucceeds(t *testing.T) {
	ctx := newTestContext()
	or := NewOr(letCmd("left", "1"), letCmd("touched", "1"))
	result := pollToCompletion(t, ctx, NewRunner(or))
	if result.Code != 0 {
		t.Errorf("got code %d, want 0", result.Code)
	}
	if _, ok := ctx.State.Get("touched"); ok {
		t.Error("expected the right side to be skipped when the left side succeeds")
	}
}

func TestOrRunsRightWhenLeftFails(t *testing.T) {
	ctx := newTestContext()
	or := NewOr(letCmd("bad"), letCmd("right", "1"))
	result := pollToCompletion(t, ctx, NewRunner(or))
	if result.Code != 0 {
		t.Errorf("got code %d, want 0 (the right side's success)", result.Code)
	}
	if _, ok := ctx.State.Get("right"); !ok {
		t.Error("expected the right side to run when the left side fails")
	}
}

func TestNotInvertsSuccessAndFailure(t *testing.T) {
	ctx := newTestContext()
	notOfSuccess := NewNot(letCmd("k", "v"))
	result := pollToCompletion(t, ctx, NewRunner(notOfSuccess))
	if result.Code != 1 {
		t.Errorf("got code %d, want 1 (negated success)", result.Code)
	}

	ctx2 := newTestContext()
	notOfFailure := NewNot(letCmd("bad"))
	result2 := pollToCompletion(t, ctx2, NewRunner(notOfFailure))
	if result2.Code != 0 {
		t.Errorf("got code %d, want 0 (negated failure)", result2.Code)
	}
}
