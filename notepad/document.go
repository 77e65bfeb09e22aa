// Package notepad implements the persistent per-directory memory document:
// a markdown file with three independently rewritable sections. Rewrites
// are byte splices: the untouched sections and every section's leading
// comment block survive verbatim.
package notepad

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrSectionUnknown is returned when a requested section is not present in
// the document.
var ErrSectionUnknown = errors.New("notepad section not found")

// Section names the three fixed sections of the document.
type Section string

const (
	// SectionPriority is always surfaced to the model. Soft cap 500
	// characters; over-cap content is flagged, not truncated.
	SectionPriority Section = "Priority Context"
	// SectionMemory holds timestamped entries pruned after a configured age.
	SectionMemory Section = "Working Memory"
	// SectionManual holds user content and is never pruned.
	SectionManual Section = "MANUAL"
)

// PriorityCap is the soft character cap on the priority section.
const PriorityCap = 500

// Sections lists the canonical sections in document order.
func Sections() []Section {
	return []Section{SectionPriority, SectionMemory, SectionManual}
}

// headerPattern matches level-2 markdown headers at the start of a line.
var headerPattern = regexp.MustCompile(`(?m)^## +([^\n]+?)[ \t]*$`)

// fencePattern matches fenced code block delimiters, allowing up to three
// spaces of indentation per CommonMark.
var fencePattern = regexp.MustCompile("(?m)^[ ]{0,3}(`{3,}|~{3,})")

// section is a parsed section boundary. Content offsets exclude the header
// line but include any leading comment block.
type section struct {
	name         string
	contentStart int
	contentEnd   int
}

// fencedRanges returns byte ranges of fenced code blocks, pairing an
// opening fence with the first closing fence of the same character and at
// least the same length.
func fencedRanges(text string) [][2]int {
	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) < 2 {
		return nil
	}

	var ranges [][2]int
	var openChar byte
	var openLen, openStart int
	inFence := false

	for _, m := range matches {
		chars := text[m[2]:m[3]]
		if !inFence {
			openChar = chars[0]
			openLen = len(chars)
			openStart = m[0]
			inFence = true
		} else if chars[0] == openChar && len(chars) >= openLen {
			ranges = append(ranges, [2]int{openStart, m[1]})
			inFence = false
		}
	}
	return ranges
}

func insideFence(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// parseSections finds all level-2 headers outside code fences and their
// content boundaries.
func parseSections(text string) []section {
	all := headerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(all) == 0 {
		return nil
	}

	fences := fencedRanges(text)
	matches := all[:0:0]
	for _, m := range all {
		if !insideFence(m[0], fences) {
			matches = append(matches, m)
		}
	}

	sections := make([]section, len(matches))
	for i, m := range matches {
		contentStart := m[1]
		if contentStart < len(text) && text[contentStart] == '\n' {
			contentStart++
		}
		contentEnd := len(text)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		sections[i] = section{
			name:         text[m[2]:m[3]],
			contentStart: contentStart,
			contentEnd:   contentEnd,
		}
	}
	return sections
}

// findSection locates sec in text, case-insensitively on the header name.
func findSection(text string, sec Section) (section, error) {
	sections := parseSections(text)
	want := strings.ToLower(string(sec))
	for _, s := range sections {
		if strings.ToLower(s.name) == want {
			return s, nil
		}
	}
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	return section{}, fmt.Errorf("%w: %q (have: %s)",
		ErrSectionUnknown, sec, strings.Join(names, ", "))
}

// leadingComment returns the HTML comment block at the start of section
// content, including its trailing newline, verbatim. Returns "" when the
// content does not start with a comment.
func leadingComment(content string) string {
	if !strings.HasPrefix(strings.TrimLeft(content, " \t"), "<!--") {
		return ""
	}
	end := strings.Index(content, "-->")
	if end < 0 {
		return ""
	}
	end += len("-->")
	if end < len(content) && content[end] == '\n' {
		end++
	}
	return content[:end]
}

// Read extracts a section's value: the text between its header and the
// next header, with the leading comment block stripped and surrounding
// whitespace trimmed.
func Read(text string, sec Section) (string, error) {
	s, err := findSection(text, sec)
	if err != nil {
		return "", err
	}
	raw := text[s.contentStart:s.contentEnd]
	raw = raw[len(leadingComment(raw)):]
	return strings.TrimSpace(raw), nil
}

// Write replaces a section's value, leaving the other sections and the
// section's own leading comment block untouched byte for byte.
func Write(text string, sec Section, content string) (string, error) {
	s, err := findSection(text, sec)
	if err != nil {
		return "", err
	}
	raw := text[s.contentStart:s.contentEnd]
	comment := leadingComment(raw)

	var b strings.Builder
	b.WriteString(text[:s.contentStart])
	b.WriteString(comment)
	if body := strings.TrimRight(content, " \t\n"); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(text[s.contentEnd:])
	return b.String(), nil
}

// Bootstrap returns the canonical skeleton used when no document exists.
func Bootstrap() string {
	return `<!-- uira notepad: persistent memory for this working directory. -->

## Priority Context
<!-- Always surfaced to the model. Keep it under 500 characters. -->

## Working Memory
<!-- Timestamped entries; pruned automatically after 7 days. -->

## MANUAL
<!-- Your notes. Never pruned, never rewritten by tooling. -->
`
}
