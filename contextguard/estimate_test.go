package contextguard

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"one rune rounds up", "a", 1},
		{"exactly four runes", "abcd", 1},
		{"five runes round up", "abcde", 2},
		{"eight runes", "abcdefgh", 2},
		{"multibyte counts runes not bytes", "日本語の文字", 2}, // 6 runes
		{"large input", strings.Repeat("x", 4000), 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.in); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTrackedTool(t *testing.T) {
	tracked := []string{"read", "Read", "READ", "grep", "Glob", "bash", "WebFetch"}
	for _, name := range tracked {
		if !TrackedTool(name) {
			t.Errorf("TrackedTool(%q) = false, want true", name)
		}
	}

	untracked := []string{"write", "edit", "ls", "", "readfile"}
	for _, name := range untracked {
		if TrackedTool(name) {
			t.Errorf("TrackedTool(%q) = true, want false", name)
		}
	}
}
