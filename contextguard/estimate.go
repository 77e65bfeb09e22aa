// Package contextguard approximates context-window pressure from the
// volume of tool output a session has consumed, and emits escalating,
// debounced warnings before the window fills up.
package contextguard

import (
	"strings"
	"unicode/utf8"
)

// EstimateTokens approximates the token count of s as ceil(characters/4).
// This is an explicit approximation, never a real tokenizer; it only has
// to be monotone in the input size and in the right order of magnitude.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return (utf8.RuneCountInString(s) + 3) / 4
}

// trackedTools is the allow-list of high-volume tools whose output counts
// toward the running estimate. Everything else is noise at this
// granularity.
var trackedTools = map[string]struct{}{
	"read":     {},
	"grep":     {},
	"glob":     {},
	"bash":     {},
	"webfetch": {},
}

// TrackedTool reports whether a tool's output accumulates, matching the
// allow-list case-insensitively.
func TrackedTool(name string) bool {
	_, ok := trackedTools[strings.ToLower(name)]
	return ok
}
