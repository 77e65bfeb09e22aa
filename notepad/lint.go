package notepad

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"

	markdown "github.com/teekennedy/goldmark-markdown"
)

// Issue is one structural problem found in a notepad document.
type Issue struct {
	Line     int
	Severity string // "error" or "warning"
	Message  string
	Rule     string
}

// LintResult is the outcome of linting one document.
type LintResult struct {
	Success   bool
	Issues    []Issue
	Formatted []byte
}

// Linter checks a notepad document's structure and produces a canonically
// formatted rendition. Formatting is opt-in tooling only: hook-driven
// section rewrites never go through the renderer, because rendering does
// not preserve the document byte for byte.
type Linter struct {
	md goldmark.Markdown
}

// NewLinter creates a linter that tolerates a leading frontmatter block.
func NewLinter() *Linter {
	return &Linter{
		md: goldmark.New(
			goldmark.WithExtensions(&frontmatter.Extender{}),
		),
	}
}

// Lint parses the document, checks for the three required sections, flags
// over-cap priority content, and reports whether a canonical reformat
// would change the file.
func (l *Linter) Lint(content []byte) (*LintResult, error) {
	result := &LintResult{Success: true}

	reader := text.NewReader(content)
	parserCtx := parser.NewContext()
	doc := l.md.Parser().Parse(reader, parser.WithContext(parserCtx))

	seen := map[string]int{}
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := node.(*ast.Heading)
		if !ok || !entering || heading.Level != 2 {
			return ast.WalkContinue, nil
		}
		name := headingText(heading, content)
		seen[strings.ToLower(name)]++
		if !canonicalSection(name) {
			result.Issues = append(result.Issues, Issue{
				Line:     lineOf(content, heading),
				Severity: "warning",
				Message:  fmt.Sprintf("unexpected section %q; the notepad has fixed sections", name),
				Rule:     "sections",
			})
		}
		return ast.WalkContinue, nil
	})

	for _, sec := range Sections() {
		switch seen[strings.ToLower(string(sec))] {
		case 0:
			result.Issues = append(result.Issues, Issue{
				Line:     1,
				Severity: "error",
				Message:  fmt.Sprintf("missing required section %q", sec),
				Rule:     "sections",
			})
		case 1:
			// expected
		default:
			result.Issues = append(result.Issues, Issue{
				Line:     1,
				Severity: "error",
				Message:  fmt.Sprintf("section %q appears more than once", sec),
				Rule:     "sections",
			})
		}
	}

	if priority, err := Read(string(content), SectionPriority); err == nil {
		if n := utf8.RuneCountInString(priority); n > PriorityCap {
			result.Issues = append(result.Issues, Issue{
				Line:     1,
				Severity: "warning",
				Message:  fmt.Sprintf("priority context is %d characters; the soft cap is %d", n, PriorityCap),
				Rule:     "priority-cap",
			})
		}
	}

	// Canonical rendition; a fresh renderer per call for thread safety.
	var formatted bytes.Buffer
	renderer := markdown.NewRenderer()
	if err := renderer.Render(&formatted, content, doc); err != nil {
		return nil, fmt.Errorf("failed to format notepad: %w", err)
	}
	result.Formatted = formatted.Bytes()

	if !bytes.Equal(content, result.Formatted) {
		result.Issues = append(result.Issues, Issue{
			Line:     1,
			Severity: "warning",
			Message:  "document is not canonically formatted",
			Rule:     "formatting",
		})
	}

	for _, issue := range result.Issues {
		if issue.Severity == "error" {
			result.Success = false
			break
		}
	}
	return result, nil
}

// headingText extracts the raw text of an ATX heading.
func headingText(heading *ast.Heading, source []byte) string {
	if heading.Lines().Len() == 0 {
		return ""
	}
	seg := heading.Lines().At(0)
	return strings.TrimSpace(string(seg.Value(source)))
}

// lineOf returns the 1-based line a node starts on.
func lineOf(source []byte, node ast.Node) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	seg := node.Lines().At(0)
	return bytes.Count(source[:seg.Start], []byte{'\n'}) + 1
}

func canonicalSection(name string) bool {
	for _, sec := range Sections() {
		if strings.EqualFold(name, string(sec)) {
			return true
		}
	}
	return false
}
