package invariant

import (
	"strings"
	"testing"
)

func TestPreconditionDoesNotPanicWhenTrue(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("unexpected panic: %v", r)
		}
	}()
	Precondition(1+1 == 2, "math broke")
}

func TestPreconditionPanicsWithFormattedMessage(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "PRECONDITION") || !strings.Contains(msg, "arg must be positive") {
			t.Errorf("got panic value %v, want a PRECONDITION message mentioning the formatted text", r)
		}
	}()
	Precondition(false, "arg must be positive, got %d", -1)
}

func TestPostconditionPanicsOnFalse(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "POSTCONDITION") {
			t.Errorf("got %v, want a POSTCONDITION panic", r)
		}
	}()
	Postcondition(false, "should not happen")
}

func TestInvariantPanicsOnFalse(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "INVARIANT") {
			t.Errorf("got %v, want an INVARIANT panic", r)
		}
	}()
	Invariant(false, "loop made no progress")
}

func TestNotNilPanicsOnNilInterface(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "thing must not be nil") {
			t.Errorf("got %v, want a nil-argument panic naming \"thing\"", r)
		}
	}()
	var thing any
	NotNil(thing, "thing")
}

func TestNotNilAllowsNonNilValue(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("unexpected panic: %v", r)
		}
	}()
	NotNil(42, "thing")
}
