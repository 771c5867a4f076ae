package builtins

import (
	"fmt"
	"strings"
)

// builtinEval implements `eval "text"`, grounded on
// original_source/src/builtin/eval.rs: re-joins its arguments and re-runs
// them through the same lexer/parser/scheduler pipeline.
func builtinEval(env Env, args []string) int {
	code := strings.Join(args[1:], " ")
	if strings.TrimSpace(code) == "" {
		return 0
	}
	code += "\n"
	status, err := env.Eval(code)
	if err != nil {
		fmt.Fprintln(env.Stderr(), err)
		return 1
	}
	return status
}
