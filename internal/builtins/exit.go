package builtins

import (
	"fmt"
	"strconv"
)

// builtinExit implements `exit [code]`, grounded on
// original_source/src/builtin/exit.rs.
func builtinExit(env Env, args []string) int {
	if len(args) > 2 {
		fmt.Fprintln(env.Stderr(), "exit: Usage:\nexit [code]")
		return 1
	}
	if len(args) == 2 {
		code, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(env.Stderr(), "exit: exit code not an integer")
			return 1
		}
		env.RequestExit(code)
		return code
	}
	env.RequestExit(0)
	return 0
}
