// ABOUTME: Ignore rules deciding which scanned paths are excluded from the course map.
// ABOUTME: A leading slash anchors a rule to the path tail; anything else is a substring match.
package config

import "strings"

// IgnoreRules is an ordered list of exclusion patterns.
type IgnoreRules []string

// Match reports whether path is excluded by any rule. A rule beginning with
// "/" matches when the rest of the rule is a suffix of path; any other rule
// matches when it occurs anywhere in path. Empty rules never match.
func (r IgnoreRules) Match(path string) bool {
	for _, rule := range r {
		if matchRule(rule, path) {
			return true
		}
	}
	return false
}

func matchRule(rule, path string) bool {
	if rule == "" {
		return false
	}
	if tail, anchored := strings.CutPrefix(rule, "/"); anchored {
		return tail != "" && strings.HasSuffix(path, tail)
	}
	return strings.Contains(path, rule)
}
