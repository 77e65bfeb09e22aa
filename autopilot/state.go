package autopilot

import (
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/kaptinlin/jsonschema"
)

// State is the persisted progress document of one autopilot run. One
// document exists per working directory; a terminal phase clears Active
// and stamps CompletedAt but the file stays on disk until an external
// caller removes it.
type State struct {
	Active        bool       `json:"active"`
	Phase         Phase      `json:"phase"`
	Iteration     int        `json:"iteration"`
	MaxIterations int        `json:"max_iterations"`
	OriginalTask  string     `json:"original_task"`
	PlanPath      string     `json:"plan_path,omitempty"`
	SessionID     string     `json:"session_id,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// Validate checks the document invariants enforced before every write.
// An invalid document is rejected before any byte reaches disk.
func (s *State) Validate() error {
	if s.MaxIterations <= 0 {
		return fmt.Errorf("invalid autopilot state: max_iterations must be positive, got %d", s.MaxIterations)
	}
	if s.Iteration < 1 {
		return fmt.Errorf("invalid autopilot state: iteration must be at least 1, got %d", s.Iteration)
	}
	if s.OriginalTask == "" {
		return fmt.Errorf("invalid autopilot state: original_task must not be empty")
	}
	if !s.Phase.Known() {
		return fmt.Errorf("invalid autopilot state: unknown phase %q", s.Phase)
	}
	return nil
}

// stateSchema is the wire-level contract of the persisted document.
// Structural validation runs alongside the invariant checks in Validate.
const stateSchema = `{
  "type": "object",
  "required": ["active", "phase", "iteration", "max_iterations", "original_task", "started_at", "updated_at"],
  "properties": {
    "active": {"type": "boolean"},
    "phase": {"enum": ["idle", "planning", "executing", "verifying", "complete", "failed", "cancelled"]},
    "iteration": {"type": "integer", "minimum": 1},
    "max_iterations": {"type": "integer", "minimum": 1},
    "original_task": {"type": "string", "minLength": 1},
    "plan_path": {"type": "string"},
    "session_id": {"type": "string"},
    "started_at": {"type": "string"},
    "updated_at": {"type": "string"},
    "completed_at": {"type": "string"},
    "last_error": {"type": "string"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compileStateSchema compiles the document schema once per process.
func compileStateSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, schemaErr = compiler.Compile([]byte(stateSchema))
	})
	return compiledSchema, schemaErr
}

// validateDocument checks the serialized form of s against the schema.
func validateDocument(data []byte) error {
	schema, err := compileStateSchema()
	if err != nil {
		return fmt.Errorf("failed to compile state schema: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode state document: %w", err)
	}
	// Validate always returns a non-nil result; failure is carried in it.
	if result := schema.Validate(doc); !result.IsValid() {
		return fmt.Errorf("state document failed schema validation: %s", result.Error())
	}
	return nil
}
