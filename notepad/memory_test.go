package notepad

import (
	"strings"
	"testing"
	"time"
)

var pruneNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func memoryDoc(entries string) string {
	return "## Priority Context\n\n## Working Memory\n<!-- entries -->\n" +
		entries + "\n## MANUAL\nkeep me\n"
}

func TestAppendEntry(t *testing.T) {
	doc := Bootstrap()

	first, err := AppendEntry(doc, "looked into the flaky test", pruneNow)
	if err != nil {
		t.Fatalf("AppendEntry() error = %v", err)
	}
	body, err := Read(first, SectionMemory)
	if err != nil {
		t.Fatal(err)
	}
	want := "### 2026-08-28 12:00:00\nlooked into the flaky test"
	if body != want {
		t.Errorf("memory = %q, want %q", body, want)
	}

	// A second entry lands after the first, blank-line separated.
	second, err := AppendEntry(first, "fixed it", pruneNow.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	body, err = Read(second, SectionMemory)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(body, want+"\n\n### 2026-08-28 13:00:00\nfixed it") {
		t.Errorf("memory after second append = %q", body)
	}
}

func TestPrune_DropsOnlyOldEntries(t *testing.T) {
	old := pruneNow.Add(-8 * 24 * time.Hour).Format(TimestampLayout)
	fresh := pruneNow.Add(-time.Hour).Format(TimestampLayout)
	doc := memoryDoc("### " + old + "\nstale fact\n\n### " + fresh + "\nfresh fact\n")

	out, removed, err := Prune(doc, DefaultMaxAge, pruneNow)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	body, err := Read(out, SectionMemory)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body, "stale fact") {
		t.Error("stale entry survived the prune")
	}
	if !strings.Contains(body, "fresh fact") {
		t.Error("fresh entry was pruned")
	}

	// Other sections and the section comment are untouched.
	if !strings.Contains(out, "<!-- entries -->") {
		t.Error("section comment lost")
	}
	if !strings.Contains(out, "keep me") {
		t.Error("manual section modified")
	}
}

func TestPrune_NothingToRemoveReturnsOriginal(t *testing.T) {
	fresh := pruneNow.Add(-time.Hour).Format(TimestampLayout)
	doc := memoryDoc("### " + fresh + "\nfresh fact\n")

	out, removed, err := Prune(doc, DefaultMaxAge, pruneNow)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if out != doc {
		t.Error("document changed although nothing was removed")
	}
}

func TestPrune_MalformedTimestampFailsOpen(t *testing.T) {
	old := pruneNow.Add(-30 * 24 * time.Hour).Format(TimestampLayout)
	doc := memoryDoc("### not a timestamp\nunparseable but kept\n\n### " + old + "\nstale fact\n")

	out, removed, err := Prune(doc, DefaultMaxAge, pruneNow)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if !strings.Contains(out, "unparseable but kept") {
		t.Error("entry with a malformed timestamp was pruned")
	}
}

func TestPrune_EmptyMemorySection(t *testing.T) {
	doc := Bootstrap()
	out, removed, err := Prune(doc, DefaultMaxAge, pruneNow)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 0 || out != doc {
		t.Errorf("Prune(empty) = removed %d, changed %t", removed, out != doc)
	}
}

func TestPrune_PreservesPreamble(t *testing.T) {
	old := pruneNow.Add(-30 * 24 * time.Hour).Format(TimestampLayout)
	doc := memoryDoc("freeform note before any entry\n\n### " + old + "\nstale fact\n")

	out, removed, err := Prune(doc, DefaultMaxAge, pruneNow)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if !strings.Contains(out, "freeform note before any entry") {
		t.Error("preamble text lost")
	}
}
