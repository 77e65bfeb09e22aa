package notepad

import (
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the entry timestamp format in Working Memory headers.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultMaxAge is how long Working Memory entries live before pruning.
const DefaultMaxAge = 7 * 24 * time.Hour

// entryPattern matches an entry header line `### <timestamp>`.
var entryPattern = regexp.MustCompile(`(?m)^### +([^\n]+?)[ \t]*$`)

// AppendEntry appends a timestamped entry to Working Memory and returns
// the rewritten document.
func AppendEntry(text, content string, now time.Time) (string, error) {
	current, err := Read(text, SectionMemory)
	if err != nil {
		return "", err
	}

	entry := "### " + now.Format(TimestampLayout) + "\n" + strings.TrimSpace(content)
	if current != "" {
		current = current + "\n\n" + entry
	} else {
		current = entry
	}
	return Write(text, SectionMemory, current)
}

// Prune drops Working Memory entries older than maxAge and returns the
// rewritten document and how many entries were removed. Entries whose
// timestamp does not parse are left untouched: pruning fails open, never
// closed. Other sections and the section comment are not modified.
func Prune(text string, maxAge time.Duration, now time.Time) (string, int, error) {
	body, err := Read(text, SectionMemory)
	if err != nil {
		return "", 0, err
	}
	if body == "" {
		return text, 0, nil
	}

	headers := entryPattern.FindAllStringSubmatchIndex(body, -1)
	if len(headers) == 0 {
		return text, 0, nil
	}

	cutoff := now.Add(-maxAge)
	var kept []string

	// Text before the first entry header is preserved as-is.
	if preamble := strings.TrimSpace(body[:headers[0][0]]); preamble != "" {
		kept = append(kept, preamble)
	}

	removed := 0
	for i, m := range headers {
		end := len(body)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := strings.TrimSpace(body[m[0]:end])
		stamp := body[m[2]:m[3]]

		ts, err := time.ParseInLocation(TimestampLayout, stamp, now.Location())
		if err == nil && ts.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, block)
	}

	if removed == 0 {
		return text, 0, nil
	}

	rewritten, err := Write(text, SectionMemory, strings.Join(kept, "\n\n"))
	if err != nil {
		return "", 0, err
	}
	return rewritten, removed, nil
}
