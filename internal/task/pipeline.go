package task

import "os"

// Pipeline wires n-1 OS pipes between n children, starts each child in
// left-to-right order, then polls them all in order. Grounded on
// original_source/src/task/pipeline.rs; the raw dup2/fd-restore dance
// there is replaced by swapping Context.Stdin/Stdout around each child's
// first Poll (see DESIGN.md — os/exec.Cmd is given io.Reader/Writer pipe
// ends directly rather than inheriting fd 0/1 via dup2).
type Pipeline struct {
	Children []*Runner
	started  bool
}

// NewPipeline builds a Pipeline over already-wrapped stage tasks.
func NewPipeline(children ...*Runner) *Pipeline {
	return &Pipeline{Children: children}
}

func (p *Pipeline) start(ctx *Context) error {
	n := len(p.Children)
	origStdin, origStdout := ctx.Stdin, ctx.Stdout

	var prevRead *os.File
	for i := 0; i < n; i++ {
		if i == 0 {
			ctx.Stdin = origStdin
		} else {
			ctx.Stdin = prevRead
		}

		last := i == n-1
		var write *os.File
		var nextRead *os.File
		if last {
			ctx.Stdout = origStdout
		} else {
			r, w, err := os.Pipe()
			if err != nil {
				return err
			}
			ctx.Stdout, write, nextRead = w, w, r
		}

		if _, err := p.Children[i].Poll(ctx); err != nil {
			return err
		}
		if prevRead != nil {
			prevRead.Close()
		}
		if write != nil {
			write.Close()
		}
		prevRead = nextRead
	}

	ctx.Stdin, ctx.Stdout = origStdin, origStdout
	return nil
}

func (p *Pipeline) Poll(ctx *Context) (Result, error) {
	if !p.started {
		if err := p.start(ctx); err != nil {
			return Result{}, err
		}
		p.started = true
	}

	result := Success(0)
	var err error
	for _, child := range p.Children {
		result, err = child.Poll(ctx)
		if err != nil || result.Waiting {
			return result, err
		}
	}
	return result, nil
}
