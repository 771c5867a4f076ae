package task

// Result is a task's poll outcome: either still waiting, or done with an
// exit code. There is no separate Err variant in the type itself — errors
// are returned as Go's second return value, aborting the current task tree
// per spec.md §7's runtime-error policy.
type Result struct {
	Waiting bool
	Code    int
}

// Wait is the shared "still waiting" result.
var Wait = Result{Waiting: true}

// Success builds a completed result with the given exit code.
func Success(code int) Result { return Result{Code: code} }

// Task is anything the scheduler can poll. Poll must be restartable: once
// it returns a non-waiting Result, later calls return the same Result
// without redoing work (enforced by the wrapping in Run, mirroring the
// source's Task::poll memoizing against TaskStatus::Wait).
type Task interface {
	Poll(ctx *Context) (Result, error)
}

// Runner wraps a Task with the status-memoization the scheduler's run loop
// depends on (poll again only while still Wait).
type Runner struct {
	impl   Task
	status Result
	err    error
	done   bool
}

// NewRunner wraps a Task.
func NewRunner(impl Task) *Runner {
	return &Runner{impl: impl, status: Wait}
}

// Poll re-polls the wrapped Task only if it hasn't completed yet.
func (r *Runner) Poll(ctx *Context) (Result, error) {
	if r.done {
		return r.status, r.err
	}
	r.status, r.err = r.impl.Poll(ctx)
	if r.err != nil || !r.status.Waiting {
		r.done = true
	}
	return r.status, r.err
}

// Run polls the root repeatedly, blocking in waitpid between polls,
// until the root completes. It is the scheduler's single blocking call
// site (spec.md §4.6/§5).
func Run(ctx *Context, root *Runner) (int, error) {
	for {
		result, err := root.Poll(ctx)
		if err != nil {
			return 1, err
		}
		if !result.Waiting {
			ctx.State.ExitCode = result.Code
			return result.Code, nil
		}
		if err := reapOne(ctx); err != nil {
			return 1, err
		}
	}
}
