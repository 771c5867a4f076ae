package task

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/acmesh-lang/acmesh/internal/ast"
)

func externalCommand(t *testing.T, name string, args ...string) *Runner {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not found on PATH", name)
	}
	words := make([]*ast.Word, len(args))
	for i, a := range args {
		words[i] = ast.NewString(a, false)
	}
	return buildSimpleCommand(ast.SimpleCommand{Name: ast.NewString(name, false), Args: words})
}

func TestPipelineWiresStdoutToStdinAcrossStages(t *testing.T) {
	ctx := newTestContext()
	echo := externalCommand(t, "echo", "hello-pipeline")
	cat := externalCommand(t, "cat")
	p := NewPipeline(echo, cat)
	pollToCompletion(t, ctx, NewRunner(p))

	out := ctx.Stdout.(interface{ String() string }).String()
	if strings.TrimSpace(out) != "hello-pipeline" {
		t.Errorf("got stdout %q, want hello-pipeline", out)
	}
}

func TestPipelineExitCodeIsLastStages(t *testing.T) {
	ctx := newTestContext()
	echo := externalCommand(t, "echo", "x")
	grep := externalCommand(t, "grep", "nonexistent-pattern-xyz")
	p := NewPipeline(echo, grep)
	result := pollToCompletion(t, ctx, NewRunner(p))
	if result.Code == 0 {
		t.Error("expected a nonzero exit code from grep finding no match")
	}
}
