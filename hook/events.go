package hook

// Event identifies a lifecycle event of the agent loop. Events are the
// dispatch key: a hook declares the set of events it handles and the
// registry routes each incoming payload to the hooks bound to its event.
type Event string

const (
	// UserPromptSubmitEvent fires when the user submits a prompt, before
	// the model sees it.
	UserPromptSubmitEvent Event = "UserPromptSubmit"

	// PreToolUseEvent fires before a tool is executed.
	PreToolUseEvent Event = "PreToolUse"

	// PostToolUseEvent fires after a tool has executed, carrying its output.
	PostToolUseEvent Event = "PostToolUse"

	// StopEvent fires when the agent finishes a turn.
	StopEvent Event = "Stop"

	// SubagentStopEvent fires when a delegated subagent completes.
	SubagentStopEvent Event = "SubagentStop"

	// SessionIdleEvent fires when a session has been idle past the driver's
	// idle threshold.
	SessionIdleEvent Event = "SessionIdle"

	// NotificationEvent fires for driver-side notifications.
	NotificationEvent Event = "Notification"
)

// knownEvents is the closed set accepted on the wire.
var knownEvents = map[Event]struct{}{
	UserPromptSubmitEvent: {},
	PreToolUseEvent:       {},
	PostToolUseEvent:      {},
	StopEvent:             {},
	SubagentStopEvent:     {},
	SessionIdleEvent:      {},
	NotificationEvent:     {},
}

// Known reports whether e is part of the closed event set.
func (e Event) Known() bool {
	_, ok := knownEvents[e]
	return ok
}
