package notepad

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	dirName  = ".uira"
	fileName = "notepad.md"
)

// Store abstracts the on-disk document. Load returns the bootstrap
// skeleton when no document exists, plus whether one existed. No
// cross-process locking; one writer per directory is assumed.
type Store interface {
	Load(dir string) (text string, exists bool, err error)
	Save(dir, text string) error
}

// FileStore keeps the document at <dir>/.uira/notepad.md.
type FileStore struct{}

// NewFileStore creates a file-backed store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// DocumentPath returns the document path for a working directory.
func DocumentPath(dir string) string {
	return filepath.Join(dir, dirName, fileName)
}

// Load reads the document, or returns the bootstrap skeleton when absent.
func (fs *FileStore) Load(dir string) (string, bool, error) {
	data, err := os.ReadFile(DocumentPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return Bootstrap(), false, nil
		}
		return "", false, fmt.Errorf("failed to read notepad: %w", err)
	}
	return string(data), true, nil
}

// Save rewrites the document through a temp file and rename.
func (fs *FileStore) Save(dir, text string) error {
	if err := os.MkdirAll(filepath.Join(dir, dirName), 0755); err != nil {
		return fmt.Errorf("failed to create notepad directory: %w", err)
	}
	path := DocumentPath(dir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write notepad: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace notepad: %w", err)
	}
	return nil
}

// Notepad binds the section operations to a store.
type Notepad struct {
	store Store
	now   func() time.Time
}

// NewNotepad creates a notepad over a store.
func NewNotepad(store Store) *Notepad {
	return &Notepad{store: store, now: time.Now}
}

// ReadSection returns a section's value for the directory's document.
func (n *Notepad) ReadSection(dir string, sec Section) (string, error) {
	text, _, err := n.store.Load(dir)
	if err != nil {
		return "", err
	}
	return Read(text, sec)
}

// WriteSection replaces a section's value and persists the document.
func (n *Notepad) WriteSection(dir string, sec Section, content string) error {
	text, _, err := n.store.Load(dir)
	if err != nil {
		return err
	}
	rewritten, err := Write(text, sec, content)
	if err != nil {
		return err
	}
	return n.store.Save(dir, rewritten)
}

// Append adds a timestamped Working Memory entry and persists.
func (n *Notepad) Append(dir, content string) error {
	text, _, err := n.store.Load(dir)
	if err != nil {
		return err
	}
	rewritten, err := AppendEntry(text, content, n.now())
	if err != nil {
		return err
	}
	return n.store.Save(dir, rewritten)
}

// Prune drops stale Working Memory entries, persisting only when the
// document actually changed and already existed. Returns how many entries
// were removed.
func (n *Notepad) Prune(dir string, maxAge time.Duration) (int, error) {
	text, exists, err := n.store.Load(dir)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	rewritten, removed, err := Prune(text, maxAge, n.now())
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, n.store.Save(dir, rewritten)
}
