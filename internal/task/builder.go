package task

import (
	"fmt"

	"github.com/acmesh-lang/acmesh/internal/ast"
)

// BuildProgram turns a parsed *ast.Program into the Task tree that runs
// it: one List entry per CommandList, run in order. Grounded on
// original_source/src/task/task.rs's new_from_command_lists.
func BuildProgram(prog *ast.Program) *Runner {
	children := make([]*Runner, 0, len(prog.Lists))
	for _, cl := range prog.Lists {
		children = append(children, buildCommandList(cl))
	}
	return NewRunner(NewList(children...))
}

// buildCommandList folds one `&&`/`||` chain left to right, matching
// spec.md's supplemented AndOr grammar: each element's Op connects it to
// the accumulated result of everything before it.
func buildCommandList(cl ast.CommandList) *Runner {
	var acc *Runner
	for i, elem := range cl.Chain {
		term := buildNegatedPipeline(elem.Term)
		if i == 0 {
			acc = term
			continue
		}
		switch elem.Op {
		case ast.OpAnd:
			acc = NewRunner(NewAnd(acc, term))
		case ast.OpOr:
			acc = NewRunner(NewOr(acc, term))
		}
	}
	if acc == nil {
		return NewRunner(NewList())
	}
	return acc
}

func buildNegatedPipeline(np ast.NegatedPipeline) *Runner {
	p := buildPipeline(np.Pipeline)
	if np.Negate {
		return NewRunner(NewNot(p))
	}
	return p
}

func buildPipeline(p ast.Pipeline) *Runner {
	if len(p.Stages) == 1 {
		return buildCommand(p.Stages[0])
	}
	children := make([]*Runner, len(p.Stages))
	for i, stage := range p.Stages {
		children[i] = buildCommand(stage)
	}
	return NewRunner(NewPipeline(children...))
}

func buildCommand(c ast.Command) *Runner {
	switch cc := c.(type) {
	case ast.SimpleCommand:
		return buildSimpleCommand(cc)
	case ast.SREProgram:
		return NewRunner(NewSRESequence(cc.Stages))
	case ast.BraceGroup:
		return BuildProgram(cc.Body)
	case ast.IfElse:
		return buildIfElse(cc)
	case ast.Switch:
		return NewRunner(NewSwitch(cc.Scrutinee, cc.Arms))
	case ast.Match:
		return NewRunner(NewMatch(cc.Arms))
	default:
		panic(fmt.Sprintf("task: unknown command node %T", c))
	}
}

// buildSimpleCommand wraps name/args word evaluation and the Command
// task itself in a single List, so every word is already WString by the
// time Command.Poll builds argv. Grounded on
// original_source/src/task/task.rs's new_from_simple_command.
func buildSimpleCommand(c ast.SimpleCommand) *Runner {
	children := make([]*Runner, 0, len(c.Args)+2)
	children = append(children, NewWordTask(c.Name, true))
	for _, arg := range c.Args {
		children = append(children, NewWordTask(arg, true))
	}
	children = append(children, NewRunner(NewCommand(c.Name, c.Args)))
	return NewRunner(NewList(children...))
}

// buildIfElse wires the condition/body pair and, if present, a following
// ElseConstruct linked through ctx.State.IfConditionOK, matching spec.md
// §4.6's documented IfConstruct/ElseConstruct split even though the
// parser keeps them as one AST node.
func buildIfElse(ie ast.IfElse) *Runner {
	ifR := NewRunner(NewIfConstruct(BuildProgram(ie.Condition), BuildProgram(ie.Body)))
	if ie.Else == nil {
		return ifR
	}
	elseR := NewRunner(NewElseConstruct(BuildProgram(ie.Else)))
	return NewRunner(NewList(ifR, elseR))
}
