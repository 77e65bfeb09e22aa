package notepad

import (
	"strings"
	"testing"
)

func issuesByRule(result *LintResult, rule string) []Issue {
	var out []Issue
	for _, issue := range result.Issues {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func TestLinter_MissingSection(t *testing.T) {
	result, err := NewLinter().Lint([]byte("## Priority Context\n\n## Working Memory\n"))
	if err != nil {
		t.Fatalf("Lint() error = %v", err)
	}
	if result.Success {
		t.Error("Success = true with a missing section")
	}

	found := false
	for _, issue := range issuesByRule(result, "sections") {
		if issue.Severity == "error" && strings.Contains(issue.Message, "MANUAL") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %+v, want a missing-MANUAL error", result.Issues)
	}
}

func TestLinter_DuplicateSection(t *testing.T) {
	doc := "## Priority Context\n\n## Working Memory\n\n## MANUAL\n\n## Priority Context\n"
	result, err := NewLinter().Lint([]byte(doc))
	if err != nil {
		t.Fatalf("Lint() error = %v", err)
	}
	if result.Success {
		t.Error("Success = true with a duplicate section")
	}

	found := false
	for _, issue := range issuesByRule(result, "sections") {
		if strings.Contains(issue.Message, "more than once") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %+v, want a duplicate-section error", result.Issues)
	}
}

func TestLinter_UnknownSectionIsWarning(t *testing.T) {
	doc := "## Priority Context\n\n## Working Memory\n\n## MANUAL\n\n## Scratch\n"
	result, err := NewLinter().Lint([]byte(doc))
	if err != nil {
		t.Fatalf("Lint() error = %v", err)
	}
	// Unknown sections warn but do not fail the lint.
	if !result.Success {
		t.Error("Success = false for a warning-only document")
	}

	issues := issuesByRule(result, "sections")
	if len(issues) != 1 || issues[0].Severity != "warning" ||
		!strings.Contains(issues[0].Message, "Scratch") {
		t.Errorf("issues = %+v", issues)
	}
}

func TestLinter_PriorityOverCap(t *testing.T) {
	doc := "## Priority Context\n" + strings.Repeat("a", PriorityCap+1) +
		"\n\n## Working Memory\n\n## MANUAL\n"
	result, err := NewLinter().Lint([]byte(doc))
	if err != nil {
		t.Fatalf("Lint() error = %v", err)
	}
	if !result.Success {
		t.Error("over-cap priority must be a warning, not an error")
	}
	if len(issuesByRule(result, "priority-cap")) != 1 {
		t.Errorf("issues = %+v, want one priority-cap warning", result.Issues)
	}
}

func TestLinter_ProducesFormattedRendition(t *testing.T) {
	result, err := NewLinter().Lint([]byte("## Priority Context\n\n## Working Memory\n\n## MANUAL\n"))
	if err != nil {
		t.Fatalf("Lint() error = %v", err)
	}
	if len(result.Formatted) == 0 {
		t.Error("Formatted is empty")
	}
	// The canonical rendition still contains the three headers.
	for _, sec := range Sections() {
		if !strings.Contains(string(result.Formatted), string(sec)) {
			t.Errorf("Formatted lost section %q:\n%s", sec, result.Formatted)
		}
	}
}
