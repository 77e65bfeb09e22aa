package autopilot

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

const (
	stateDirName  = ".omc"
	stateFileName = "autopilot-state.json"
)

// Store abstracts the persistence of the state document so locking or
// versioning can be added later without touching transition logic.
//
// Load returns (nil, nil) when no usable document exists: a missing file
// and an unparseable one are both treated as "no state" rather than raised
// as hard errors. Save validates the document and writes all-or-nothing; a
// failed validation leaves the previous file untouched.
type Store interface {
	Load(dir string) (*State, error)
	Save(dir string, s *State) error
}

// FileStore persists the document at <dir>/.omc/autopilot-state.json,
// pretty-printed. No cross-process locking is implemented; one writer per
// directory is an assumption of the current design.
type FileStore struct{}

// NewFileStore creates a file-backed store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// StatePath returns the document path for a working directory.
func StatePath(dir string) string {
	return filepath.Join(dir, stateDirName, stateFileName)
}

// Load reads the state document for dir. Missing or corrupt documents load
// as no state.
func (fs *FileStore) Load(dir string) (*State, error) {
	data, err := os.ReadFile(StatePath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read autopilot state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt document is equivalent to no state.
		return nil, nil
	}
	return &s, nil
}

// Save validates s and rewrites the document. The write goes through a
// temp file and rename so a crash mid-write cannot truncate the previous
// document.
func (fs *FileStore) Save(dir string, s *State) error {
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal autopilot state: %w", err)
	}
	if err := validateDocument(data); err != nil {
		return err
	}

	stateDir := filepath.Join(dir, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	path := StatePath(dir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write autopilot state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace autopilot state: %w", err)
	}
	return nil
}

// Clear removes the state document for dir. Terminal documents are never
// removed automatically; this is the explicit removal path.
func Clear(dir string) error {
	err := os.Remove(StatePath(dir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autopilot state: %w", err)
	}
	return nil
}
