package hook

import "encoding/json"

// Input is the payload of one hook invocation. Which fields are populated
// depends on the event: a PostToolUse carries the tool fields, a Stop
// carries the agent's final message, a UserPromptSubmit carries the prompt.
// An Input is immutable for the duration of a hook call; hooks must not
// modify it.
type Input struct {
	SessionID      string                     `json:"session_id,omitempty"`
	TranscriptPath string                     `json:"transcript_path,omitempty"`
	Cwd            string                     `json:"cwd,omitempty"`
	Prompt         string                     `json:"prompt,omitempty"`
	ToolName       string                     `json:"tool_name,omitempty"`
	ToolInput      map[string]json.RawMessage `json:"tool_input,omitempty"`
	ToolOutput     json.RawMessage            `json:"tool_output,omitempty"`
	ToolError      string                     `json:"tool_error,omitempty"`
	FinalMessage   string                     `json:"final_message,omitempty"`
	StopReason     string                     `json:"reason,omitempty"`

	// Extra carries driver-specific fields this package does not interpret.
	Extra map[string]json.RawMessage `json:"extra,omitempty"`
}

// Context carries the invocation environment a hook may need beyond the
// payload itself: the session the event belongs to (may be empty for
// session-less events) and the working directory whose on-disk state the
// hook operates on.
type Context struct {
	SessionID string
	Directory string
}
