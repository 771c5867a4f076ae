package task

import (
	"os/exec"
	"testing"
)

func TestReapOneRecordsRealChildsExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found on PATH")
	}
	ctx := newTestContext()
	cmd := exec.Command("sh", "-c", "exit 3")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx.State.TrackProcess(cmd.Process.Pid)

	for i := 0; i < 100; i++ {
		if err := reapOne(ctx); err != nil {
			t.Fatalf("reapOne: %v", err)
		}
		if p := ctx.State.Processes[cmd.Process.Pid]; p.Terminated {
			if p.ExitCode != 3 {
				t.Errorf("got exit code %d, want 3", p.ExitCode)
			}
			return
		}
	}
	t.Fatal("child was never reaped")
}

func TestReapOneIgnoresECHILDWhenNoChildren(t *testing.T) {
	ctx := newTestContext()
	if err := reapOne(ctx); err != nil {
		t.Errorf("reapOne with no children: %v, want nil (ECHILD is not an error)", err)
	}
}
