// Package procreap implements the background reaper spec.md §5's
// cancellation note calls for: "a fatal error from a child task propagates
// outward, terminating the task tree... implementations should install a
// reaper for abandoned children." internal/task's own reapOne only runs
// while the scheduler's Run loop is polling; once a runtime error aborts
// Run, any children that were forked but never waited for would otherwise
// sit as zombies until the shell exits. Reaper picks those up in the
// background, the way runtime/executor/shell_worker.go backgrounds its own
// long-lived I/O loop behind a context and a ticker.
package procreap

import (
	"context"
	"log/slog"
	"syscall"
	"time"
)

// Reaper periodically non-blocking-waits for abandoned children so they
// don't accumulate as zombies between foreground Run calls (e.g. after the
// REPL aborts a command line on a runtime error, or for a backgrounded
// subshell the scheduler never directly waits on).
type Reaper struct {
	logger   *slog.Logger
	interval time.Duration
}

// New builds a Reaper; interval <= 0 defaults to one second, matching the
// cadence of a typical interactive shell's SIGCHLD-driven reaper without
// needing a real signal handler.
func New(logger *slog.Logger, interval time.Duration) *Reaper {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Reaper{logger: logger, interval: interval}
}

// Run blocks, reaping abandoned children on each tick until ctx is done.
// Meant to be started in its own goroutine for the process's lifetime;
// cmd/acmesh cancels ctx on shutdown.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reapAvailable()
		}
	}
}

// reapAvailable drains every child whose status is already available
// (WNOHANG) without blocking, so a slow interval never stalls the caller.
func (r *Reaper) reapAvailable() {
	for {
		var ws syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &ws, syscall.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}
		r.logger.Debug("reaped abandoned child", "pid", pid, "exited", ws.Exited(), "status", ws.ExitStatus())
	}
}
