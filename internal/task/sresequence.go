package task

import (
	"fmt"
	"io"

	"github.com/acmesh-lang/acmesh/internal/sre"
)

// SRESequence runs every stage of one `|>`-introduced pizza program against
// stdin read to completion, writing `p` output to stdout. Each stage's
// edits are applied to the buffer before the next stage resolves its own
// addresses, mirroring the original's per-stage apply_changes inside its
// fork/exec loop (original_source/src/task/sresequence.rs) — this
// implementation runs the sequence in place on the scheduler goroutine
// rather than forking, since no external process is involved.
type SRESequence struct {
	Stages []*sre.SRECommand

	done bool
	code int
	err  error
}

func NewSRESequence(stages []*sre.SRECommand) *SRESequence {
	return &SRESequence{Stages: stages}
}

func (t *SRESequence) Poll(ctx *Context) (Result, error) {
	ctx.State.IfConditionOK = nil
	if t.done {
		return Success(t.code), t.err
	}
	t.code, t.err = t.run(ctx)
	t.done = true
	return Success(t.code), t.err
}

func (t *SRESequence) run(ctx *Context) (int, error) {
	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return 0, fmt.Errorf("sre: failed to read stdin: %w", err)
	}

	buf := sre.NewBuffer(string(data))
	engine := sre.NewEngine(buf, ctx.Stdout)
	dot := sre.Range{Lo: 0, Hi: len(buf.Data)}

	for _, stage := range t.Stages {
		dot, err = engine.Run([]*sre.SRECommand{stage}, dot)
		if err != nil {
			return 0, err
		}
	}
	return 0, nil
}
