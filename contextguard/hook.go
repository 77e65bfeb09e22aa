package contextguard

import (
	"context"

	"github.com/uira-ai/uira/hook"
)

// GuardHookPriority runs the guard after autopilot but ahead of
// lower-priority message-only hooks.
const GuardHookPriority = 50

// GuardHook wires the guard into the pipeline: PostToolUse events
// accumulate tracked tool output and may emit a warning; Stop events reset
// the session's warning count for the next turn. The GC sweep piggybacks
// on PostToolUse.
type GuardHook struct {
	guard *Guard
}

// NewGuardHook creates the hook around a guard.
func NewGuardHook(guard *Guard) *GuardHook {
	return &GuardHook{guard: guard}
}

// Name implements hook.Hook.
func (h *GuardHook) Name() string { return "context-guard" }

// Events implements hook.Hook.
func (h *GuardHook) Events() []hook.Event {
	return []hook.Event{hook.PostToolUseEvent, hook.StopEvent}
}

// Priority implements hook.Hook.
func (h *GuardHook) Priority() int { return GuardHookPriority }

// Execute implements hook.Hook.
func (h *GuardHook) Execute(ctx context.Context, event hook.Event, input *hook.Input, hctx *hook.Context) (*hook.Output, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = hctx.SessionID
	}
	if sessionID == "" {
		return hook.Continue(), nil
	}

	switch event {
	case hook.StopEvent:
		h.guard.Store().ResetWarnings(sessionID)
		return hook.Continue(), nil

	case hook.PostToolUseEvent:
		h.guard.Store().MaybeSweep()
		h.guard.RecordToolOutput(sessionID, input.ToolName, input.ToolOutput)
		if msg, _ := h.guard.MaybeWarn(sessionID, ""); msg != "" {
			return hook.ContinueWith(msg), nil
		}
		return hook.Continue(), nil
	}

	return hook.Continue(), nil
}
