// Package suggest ranks "did you mean" candidates for an unrecognized
// builtin or external command name, the way runtime/planner/planner.go
// ranks decorator name suggestions.
package suggest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Candidates collects builtin names plus every executable basename found
// on $PATH, deduplicated.
func Candidates(builtinNames []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, n := range builtinNames {
		add(n)
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}
	return out
}

// Suggest ranks candidates against name and returns a "did you mean"
// message, or "" if nothing ranks closely enough.
func Suggest(name string, candidates []string) string {
	ranked := fuzzy.RankFindFold(name, candidates)
	if len(ranked) == 0 {
		return ""
	}
	best := ranked[0].Target
	if best == "" || strings.EqualFold(best, name) {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}
