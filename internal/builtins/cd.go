package builtins

import "fmt"

// builtinCd implements `cd [dir]`, grounded on
// original_source/src/builtin/cd.rs (default target is $HOME).
func builtinCd(env Env, args []string) int {
	dir := env.Home()
	if len(args) > 1 {
		dir = args[1]
	}
	if err := env.Chdir(dir); err != nil {
		fmt.Fprintf(env.Stderr(), "cd: %s\n", err)
		return 1
	}
	return 0
}
