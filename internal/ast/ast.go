// Package ast defines the shell's abstract syntax tree: shared mutable Word
// nodes, simple commands, pipelines, programs, and the SRE command AST that
// a Pizza token carries.
package ast

import "github.com/acmesh-lang/acmesh/internal/sre"

// Word is a shared, mutable AST node. It is deliberately a pointer type: the
// scheduler rewrites the Content of a Word in place during evaluation (e.g.
// a Parameter becomes a String), and every holder of the same *Word pointer
// observes the resolved value. Go's garbage collector retires the manual
// refcounting the spec calls for — sharing is achieved by holding the same
// pointer, and the AST is a DAG by construction so no cycle can form.
type Word struct {
	Content WordContent
}

// WordContent is the sum type held by a Word: String, Parameter, Command or
// List.
type WordContent interface{ wordContent() }

// WString is a literal string fragment.
type WString struct {
	Text         string
	DoubleQuoted bool
}

// WParameter is a `$name` reference, resolved in place by the word evaluator.
type WParameter struct {
	Name string
}

// WCommand is a command substitution `$(...)`-equivalent: the captured
// Program runs in a subshell and its stdout (trailing newlines stripped)
// replaces this node.
type WCommand struct {
	Program *Program
}

// WList is concatenation of fragments. The parser flattens an unquoted WList
// into the enclosing WList's Fragments; a double-quoted WList is not
// flattened and stays one nested fragment, keeping its DoubleQuoted flag.
type WList struct {
	Fragments    []*Word
	DoubleQuoted bool
}

func (WString) wordContent()    {}
func (WParameter) wordContent() {}
func (WCommand) wordContent()   {}
func (WList) wordContent()      {}

// NewString builds a Word wrapping a literal string.
func NewString(text string, doubleQuoted bool) *Word {
	return &Word{Content: WString{Text: text, DoubleQuoted: doubleQuoted}}
}

// Command is the sum type of a single pipeline stage.
type Command interface{ command() }

// SimpleCommand is a name and its arguments, with no pipes or control flow.
type SimpleCommand struct {
	Name *Word
	Args []*Word
}

// SREProgram is one or more SRE stages joined by `|` inside a single `|>`
// pipeline element (spec.md's SREProgram production).
type SREProgram struct {
	Stages []*sre.SRECommand
}

// BraceGroup is a `{ ... }` compound command.
type BraceGroup struct {
	Body *Program
}

// IfElse is an `if { cond } { body } (else { body })?` construct.
type IfElse struct {
	Condition *Program
	Body      *Program
	Else      *Program // nil if there was no else clause
}

// MatchArm pairs a pattern word with the body program run for each capture
// (Switch) or each streamed match (Match).
type MatchArm struct {
	Pattern *Word
	Body    *Program
}

// Switch performs a single dispatch against a pre-computed scrutinee string.
type Switch struct {
	Scrutinee *Word
	Arms      []MatchArm
}

// Match streams stdin through each arm's regex, firing the body once per
// capture, across every arm, until stdin closes and all queues drain.
type Match struct {
	Arms []MatchArm
}

func (SimpleCommand) command() {}
func (SREProgram) command()    {}
func (BraceGroup) command()    {}
func (IfElse) command()        {}
func (Switch) command()        {}
func (Match) command()         {}

// Pipeline is a non-empty ordered sequence of Commands connected by `|`.
type Pipeline struct {
	Stages []Command
}

// AndOrOp is the connective between two negated pipelines in an AndOr chain.
type AndOrOp int

const (
	// OpNone marks the first element of a chain, which has no preceding operator.
	OpNone AndOrOp = iota
	OpAnd          // &&
	OpOr           // ||
)

// NegatedPipeline is a pipeline with an optional leading `!` negation.
type NegatedPipeline struct {
	Negate   bool
	Pipeline Pipeline
}

// AndOrElem is one link in an AndOr chain: its Op connects it to the
// previous element (OpNone for the first element).
type AndOrElem struct {
	Op   AndOrOp
	Term NegatedPipeline
}

// CommandList wraps one top-level `&&`/`||` chain, as terminated by `;`,
// `\n` or EOF.
type CommandList struct {
	Chain []AndOrElem
}

// Program is an ordered list of CommandLists — the parser's top-level
// output, and the body of any brace group / if / switch / match arm.
type Program struct {
	Lists []CommandList
}
