package task

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/acmesh-lang/acmesh/internal/ast"
)

// matchExecContext is one fired capture, queued until its arm's body is
// free to run it.
type matchExecContext struct {
	match []string
}

type matchItem struct {
	re     *regexp.Regexp
	names  []string
	prog   *ast.Program
	offset int

	toExec     []matchExecContext
	runner     *Runner
	started    bool
	boundNames []string
}

// Match streams stdin through every arm's regex concurrently, firing each
// arm's body once per capture (queued in that arm's own FIFO when its
// body is still busy with an earlier one), until stdin closes and every
// FIFO has drained. Grounded on
// original_source/src/task/match_construct.rs; the original's blocking
// BufReader::fill_buf is replicated as one buffered Read per empty-queue
// pass through Poll.
type Match struct {
	Arms []ast.MatchArm

	initialized bool
	items       []*matchItem
	reader      *bufio.Reader
	data        []byte
	eof         bool

	lastResult Result
	ranOnce    bool
}

func NewMatch(arms []ast.MatchArm) *Match {
	return &Match{Arms: arms}
}

func (t *Match) initialize(ctx *Context) error {
	t.items = make([]*matchItem, len(t.Arms))
	for i, arm := range t.Arms {
		pattern := wordToString(arm.Pattern)
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("match: regex error: %w", err)
		}
		item := &matchItem{re: re, names: namedGroups(re), prog: arm.Body}
		item.runner = BuildProgram(item.prog)
		t.items[i] = item
	}
	t.reader = ctx.BufferedStdin()
	t.initialized = true
	return nil
}

func (t *Match) Poll(ctx *Context) (Result, error) {
	if !t.initialized {
		if err := t.initialize(ctx); err != nil {
			return Result{}, err
		}
	}

	for {
		item := t.firstPending()
		if item == nil {
			if t.eof {
				if !t.ranOnce {
					return Success(0), nil
				}
				return t.lastResult, nil
			}
			more, err := t.fill()
			if err != nil {
				return Result{}, err
			}
			if !more {
				continue
			}
			return Wait, nil
		}

		ec := item.toExec[0]
		if !item.started {
			item.boundNames = bindMatchCaptures(ctx, item.re, ec.match, item.names)
			item.started = true
		}
		result, err := item.runner.Poll(ctx)
		if err != nil {
			return Result{}, err
		}
		if result.Waiting {
			return Wait, nil
		}
		t.lastResult = result
		t.ranOnce = true
		unbindCaptures(ctx, item.boundNames)
		item.started = false
		item.toExec = item.toExec[1:]
		item.runner = BuildProgram(item.prog)
	}
}

func (t *Match) firstPending() *matchItem {
	for _, item := range t.items {
		if len(item.toExec) > 0 {
			return item
		}
	}
	return nil
}

// fill reads one chunk of stdin and feeds every arm's regex against the
// unconsumed tail of the accumulated buffer, queuing a matchExecContext
// per match found and advancing that arm's offset past it. Returns false
// once EOF is reached.
func (t *Match) fill() (bool, error) {
	chunk := make([]byte, 4096)
	n, err := t.reader.Read(chunk)
	if n > 0 {
		t.data = append(t.data, chunk[:n]...)
		for _, item := range t.items {
			s := t.data[item.offset:]
			matches := item.re.FindAllStringSubmatchIndex(string(s), -1)
			consumed := 0
			for _, m := range matches {
				ec := matchExecContext{match: submatchStrings(s, m)}
				item.toExec = append(item.toExec, ec)
				consumed = m[1]
			}
			item.offset += consumed
		}
	}
	if err != nil {
		if err == io.EOF {
			t.eof = true
			return false, nil
		}
		return false, fmt.Errorf("match: failed to read stdin: %w", err)
	}
	return true, nil
}

func submatchStrings(s []byte, m []int) []string {
	out := make([]string, len(m)/2)
	for g := 0; g < len(m)/2; g++ {
		lo, hi := m[2*g], m[2*g+1]
		if lo < 0 {
			out[g] = ""
			continue
		}
		out[g] = string(s[lo:hi])
	}
	return out
}

func bindMatchCaptures(ctx *Context, re *regexp.Regexp, match []string, names []string) []string {
	var bound []string
	for i, val := range match {
		key := strconv.Itoa(i)
		ctx.State.SetCapture(key, val)
		bound = append(bound, key)
	}
	for _, name := range names {
		val := ""
		if gi := re.SubexpIndex(name); gi >= 0 && gi < len(match) {
			val = match[gi]
		}
		ctx.State.SetCapture(name, val)
		bound = append(bound, name)
	}
	return bound
}
