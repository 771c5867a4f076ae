// Package state holds the shell's process-wide mutable state: variables,
// live child processes, and the last-exit-code bookkeeping the scheduler
// and builtins consult.
package state

import "os"

// Value is a shell variable's value: an array of strings (spec.md §3's
// Array([String])).
type Value []string

// Process tracks one forked external child.
type Process struct {
	Pid        int
	Terminated bool
	ExitCode   int
}

// State is the single shared shell state. There is exactly one instance
// per shell; it is never accessed from more than one goroutine (the
// scheduler is single-threaded and cooperative).
type State struct {
	Variables map[string]Value
	Processes map[int]*Process

	ExitCode int

	// IfConditionOK carries the most recently completed `if` condition's
	// success/failure to the following `else`, if any; nil once consumed.
	IfConditionOK *bool

	// Cwd mirrors the process's working directory so `cd` can be undone
	// by relative future commands without re-querying the OS each time.
	Cwd string
}

// New builds a State with variables seeded from the process environment.
func New() *State {
	s := &State{
		Variables: make(map[string]Value),
		Processes: make(map[int]*Process),
	}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				s.Variables[kv[:i]] = Value{kv[i+1:]}
				break
			}
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		s.Cwd = cwd
	}
	return s
}

// Get returns a variable's value, or nil if unset.
func (s *State) Get(name string) (Value, bool) {
	v, ok := s.Variables[name]
	return v, ok
}

// GetString returns a variable's first element, or "" if unset/empty.
func (s *State) GetString(name string) string {
	v, ok := s.Variables[name]
	if !ok || len(v) == 0 {
		return ""
	}
	return v[0]
}

// Set assigns a scalar variable. An empty value unsets it, matching
// `let`'s documented behavior (spec.md §6).
func (s *State) Set(name, value string) {
	if value == "" {
		delete(s.Variables, name)
		return
	}
	s.Variables[name] = Value{value}
}

// SetCapture assigns a regex capture-group variable (numbered "0".."n" or
// named), distinct from Set: an empty match must still bind the variable
// to "", not unset it — `let`'s empty-unsets convention doesn't apply to
// capture bindings.
func (s *State) SetCapture(name, value string) {
	s.Variables[name] = Value{value}
}

// Unset removes a variable entirely.
func (s *State) Unset(name string) {
	delete(s.Variables, name)
}

// TrackProcess registers a newly-forked child.
func (s *State) TrackProcess(pid int) {
	s.Processes[pid] = &Process{Pid: pid}
}

// UpdateProcess flips the matching Process to terminated with the given
// exit code, called by the scheduler's waitpid loop.
func (s *State) UpdateProcess(pid, exitCode int) {
	if p, ok := s.Processes[pid]; ok {
		p.Terminated = true
		p.ExitCode = exitCode
	}
}
