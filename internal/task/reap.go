package task

import (
	"fmt"
	"syscall"
)

// reapOne blocks on a single waitpid(-1), the scheduler's one allowed
// blocking call, and delivers the result to state.UpdateProcess. ECHILD
// (no children left to wait for) is not an error here: a task may have
// returned Wait speculatively right as its last child finished.
func reapOne(ctx *Context) error {
	var ws syscall.WaitStatus
	pid, err := syscall.Wait4(-1, &ws, 0, nil)
	if err != nil {
		if err == syscall.ECHILD {
			return nil
		}
		return fmt.Errorf("waitpid: %w", err)
	}
	code := 0
	switch {
	case ws.Exited():
		code = ws.ExitStatus()
	case ws.Signaled():
		code = 128 + int(ws.Signal())
	}
	ctx.State.UpdateProcess(pid, code)
	ctx.Logger.Debug("reaped child", "pid", pid, "code", code)
	return nil
}
