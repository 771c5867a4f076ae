package task

import "testing"

func TestListRunsEveryChildRegardlessOfExitCode(t *testing.T) {
	ctx := newTestContext()
	// A Program's top-level CommandLists all run regardless of each one's
	// own exit code; short-circuiting on failure is AndOr's job (&&/||)
	// within a single chain, not List's.
	l := NewList(letCmd("bad"), letCmd("second", "1"), letCmd("third", "1"))
	result := pollToCompletion(t, ctx, NewRunner(l))
	if result.Code != 0 {
		t.Errorf("got code %d, want 0 (the last child's result)", result.Code)
	}
	if _, ok := ctx.State.Get("second"); !ok {
		t.Error("expected the second child to run even after the first failed")
	}
	if _, ok := ctx.State.Get("third"); !ok {
		t.Error("expected the third child to run")
	}
}

func TestListWithNoChildrenCompletesImmediately(t *testing.T) {
	ctx := newTestContext()
	l := NewList()
	result, err := l.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if result.Waiting {
		t.Error("expected an empty List to complete on its first Poll")
	}
}

func TestListStopsPollingOnWaitingChild(t *testing.T) {
	ctx := newTestContext()
	echo := externalCommand(t, "echo", "x")
	l := NewList(echo, letCmd("after", "1"))
	// The first Poll should return Waiting for the forked echo, without
	// having run the second child yet.
	result, err := l.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !result.Waiting {
		t.Fatal("expected the list to be waiting on the external command")
	}
	if _, ok := ctx.State.Get("after"); ok {
		t.Error("expected the second child not to have run yet")
	}
}
