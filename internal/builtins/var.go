package builtins

import "fmt"

// builtinLet implements `let key value`, grounded on
// original_source/src/builtin/let.rs. An empty value unsets the variable,
// per spec.md §6.
func builtinLet(env Env, args []string) int {
	if len(args) != 3 {
		fmt.Fprintln(env.Stderr(), "let: Usage:\nlet <key> <value>")
		return 1
	}
	env.SetVar(args[1], args[2])
	return 0
}

// builtinUnset implements `unset key`, grounded on
// original_source/src/builtin/let.rs.
func builtinUnset(env Env, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(env.Stderr(), "unset: Usage:\nunset <key>")
		return 1
	}
	env.UnsetVar(args[1])
	return 0
}

// builtinLen implements `len var`, grounded on
// original_source/src/builtin/len.rs: a missing variable has length 0.
func builtinLen(env Env, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(env.Stderr(), "Usage: len variable")
		return 2
	}
	v, _ := env.GetVar(args[1])
	fmt.Fprintln(env.Stdout(), len(v))
	return 0
}
