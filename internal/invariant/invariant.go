// Package invariant provides contract assertions in the Tiger Style tradition:
// assertions are a force multiplier for catching bugs close to their cause.
//
// Precondition/Postcondition/Invariant all panic on violation — these guard
// programmer errors inside the core (scheduler, SRE resolver, parser arena),
// never user-facing mistakes. User errors are returned as values instead.
package invariant

import "fmt"

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during execution (loop progress,
// state consistency).
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil. Intended for pointer/interface arguments.
func NotNil(value any, name string) {
	if value == nil {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func fail(kind, format string, args ...any) {
	panic(fmt.Sprintf("%s VIOLATION: %s", kind, fmt.Sprintf(format, args...)))
}
