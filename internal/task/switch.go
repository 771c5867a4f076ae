package task

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/acmesh-lang/acmesh/internal/ast"
)

const (
	switchIndexUnknown = -1
	switchIndexNone    = -2
)

// Switch dispatches once against a scrutinee word, resolved to a plain
// string by the time Poll runs (its own Word task precedes it in the
// wrapping List, same as Command's name/args). The first arm whose
// pattern matches wins; its numbered and named capture groups are bound
// as variables for the duration of its body. Grounded on
// original_source/src/task/switch_construct.rs, adapted from the
// original's regex::RegexSet (no Go stdlib equivalent) to sequential
// regexp matching in arm order — see DESIGN.md.
type Switch struct {
	Scrutinee *ast.Word
	Arms      []ast.MatchArm

	initialized bool
	toMatch     string
	regexes     []*regexp.Regexp
	names       [][]string
	bodies      []*Runner

	index      int
	started    bool
	finished   bool
	boundNames []string
}

func NewSwitch(scrutinee *ast.Word, arms []ast.MatchArm) *Switch {
	return &Switch{Scrutinee: scrutinee, Arms: arms, index: switchIndexUnknown}
}

func (t *Switch) initialize() error {
	t.toMatch = wordToString(t.Scrutinee)
	t.regexes = make([]*regexp.Regexp, len(t.Arms))
	t.names = make([][]string, len(t.Arms))
	t.bodies = make([]*Runner, len(t.Arms))
	for i, arm := range t.Arms {
		pattern := wordToString(arm.Pattern)
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("switch: regex error: %w", err)
		}
		t.regexes[i] = re
		t.names[i] = namedGroups(re)
		t.bodies[i] = BuildProgram(arm.Body)
	}
	t.initialized = true
	return nil
}

func (t *Switch) Poll(ctx *Context) (Result, error) {
	if !t.initialized {
		if err := t.initialize(); err != nil {
			return Result{}, err
		}
	}

	if t.index == switchIndexUnknown {
		t.index = switchIndexNone
		for i, re := range t.regexes {
			if re.MatchString(t.toMatch) {
				t.index = i
				break
			}
		}
	}

	if t.index == switchIndexNone {
		return Success(0), nil
	}

	if !t.started {
		re := t.regexes[t.index]
		match := re.FindStringSubmatch(t.toMatch)
		t.boundNames = bindCaptures(ctx, re, match, t.names[t.index])
		t.started = true
	}

	result, err := t.bodies[t.index].Poll(ctx)
	if err != nil {
		return Result{}, err
	}
	if result.Waiting {
		return Wait, nil
	}
	if !t.finished {
		unbindCaptures(ctx, t.boundNames)
		t.finished = true
	}
	return result, nil
}

// namedGroups returns a regex's non-empty subexpression names, in group
// order (group 0, the whole match, is never named).
func namedGroups(re *regexp.Regexp) []string {
	var out []string
	for _, n := range re.SubexpNames()[1:] {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// bindCaptures sets numbered variables "0".."n" to match (the whole match
// plus every group, matching the original's cap.iter() behaviour) and
// named variables for every named group, returning every variable name
// set so the caller can unset them later.
func bindCaptures(ctx *Context, re *regexp.Regexp, match []string, names []string) []string {
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

func unbindCaptures(ctx *Context, names []string) {
	for _, n := range names {
		ctx.State.Unset(n)
	}
}
